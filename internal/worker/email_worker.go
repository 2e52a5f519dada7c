package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"docassist/internal/model"
)

// OTPMailSender delivers one code to one recipient.
type OTPMailSender interface {
	SendOTP(to, code string) error
}

// EmailWorker drains the OTP email queue. Delivery failures are logged and
// the job is dropped; the caller was already told issuance succeeded.
type EmailWorker struct {
	conn      *amqp.Connection
	sender    OTPMailSender
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEmailWorker(conn *amqp.Connection, sender OTPMailSender, queueName string) *EmailWorker {
	return &EmailWorker{
		conn:      conn,
		sender:    sender,
		queueName: queueName,
	}
}

func (w *EmailWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job model.OTPEmailJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Error().Err(err).Msg("worker decode otp email job failed")
					_ = d.Nack(false, false)
					continue
				}

				if err := w.sender.SendOTP(job.Email, job.Code); err != nil {
					log.Error().Err(err).Str("email", job.Email).Msg("worker send otp email failed")
					_ = d.Nack(false, false)
					continue
				}

				log.Info().Str("email", job.Email).Msg("otp email sent")
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *EmailWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
