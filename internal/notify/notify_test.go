package notify

import (
	"bytes"
	"context"
	"ecommerce-shop/internal/config"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleConfirmation() OrderConfirmation {
	return OrderConfirmation{
		OrderID:    17,
		BuyerName:  "bob",
		BuyerEmail: "bob@example.com",
		Lines: []OrderLine{
			{ProductName: "Oolong", UnitPrice: decimal.RequireFromString("12"), Quantity: 2, LineTotal: decimal.RequireFromString("24")},
			{ProductName: "Mug", UnitPrice: decimal.RequireFromString("6.5"), Quantity: 1, LineTotal: decimal.RequireFromString("6.5")},
		},
		Total: decimal.RequireFromString("30.5"),
	}
}

func TestOrderConfirmation_Invoice(t *testing.T) {
	want := "INVOICE for Order #17\n" +
		"Customer: bob (bob@example.com)\n\n" +
		"Items:\n" +
		"- Oolong (x2) @ $12.00 = $24.00\n" +
		"- Mug (x1) @ $6.50 = $6.50\n\n" +
		"TOTAL: $30.50\n\n" +
		"Thank you for your purchase!"
	assert.Equal(t, want, sampleConfirmation().Invoice())
}

type fakeSender struct {
	sent []Email
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, email Email) (SendResult, error) {
	if f.err != nil {
		return SendResult{}, f.err
	}
	f.sent = append(f.sent, email)
	return SendResult{MessageID: "m1", SentAt: time.Now()}, nil
}

func TestEmailNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier(sender)

	require.NoError(t, n.SendOrderConfirmation(context.Background(), sampleConfirmation()))
	require.NoError(t, n.SendPasswordReset(context.Background(), PasswordReset{
		Email: "bob@example.com", ResetURL: "http://shop/reset/abc", ExpiresIn: 30 * time.Minute,
	}))

	require.Len(t, sender.sent, 2)
	confirmation := sender.sent[0]
	assert.Equal(t, "Your Invoice - Order #17", confirmation.Subject)
	require.Len(t, confirmation.Attachments, 1)
	assert.Equal(t, "invoice_order_17.txt", confirmation.Attachments[0].Filename)
	assert.Contains(t, string(confirmation.Attachments[0].Content), "TOTAL: $30.50")

	reset := sender.sent[1]
	assert.Contains(t, reset.Body, "expires in 30 minutes")
	assert.Contains(t, reset.Body, "http://shop/reset/abc")

	sender.err = errors.New("smtp down")
	assert.ErrorContains(t, n.SendOrderConfirmation(context.Background(), sampleConfirmation()), "smtp down")
}

func TestBuildMessage_Multipart(t *testing.T) {
	raw, err := buildMessage("shop@example.com", "<id@host>", Email{
		To:      "bob@example.com",
		Subject: "Invoice",
		Body:    "see attachment",
		Attachments: []Attachment{
			{Filename: "invoice.txt", ContentType: "text/plain", Content: []byte("TOTAL: $1.00")},
		},
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Invoice", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	body, err := mr.NextPart()
	require.NoError(t, err)
	text, _ := io.ReadAll(body)
	assert.Equal(t, "see attachment", string(text))

	attachment, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "invoice.txt", attachment.FileName())
	encoded, _ := io.ReadAll(attachment)
	decoded, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, "TOTAL: $1.00", string(decoded))
}

func TestBuildMessage_PlainText(t *testing.T) {
	raw, err := buildMessage("shop@example.com", "<id@host>", Email{To: "a@b.c", Subject: "Hi", Body: "hello"})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	body, _ := io.ReadAll(msg.Body)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain; charset=UTF-8", msg.Header.Get("Content-Type"))
}

func TestSMTPSender_GivesUpWhenContextEnds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	// Accepts a connection but never sends the SMTP greeting.
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()
	defer func() {
		select {
		case conn := <-accepted:
			conn.Close()
		default:
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	sender, err := NewSMTPSender(config.SMTP{Host: host, Port: port, From: "shop@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = sender.SendEmail(ctx, Email{To: "bob@example.com", Subject: "Hi", Body: "hello"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = sender.SendEmail(canceled, Email{To: "bob@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestSNSNotifier_PublishesOrderEvent(t *testing.T) {
	client := &mockSNS{}
	var published *sns.PublishInput
	client.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{}, nil)

	n, err := NewSNSNotifier(client, "arn:aws:sns:eu-west-2:000000000000:shop-notifications")
	require.NoError(t, err)
	require.NoError(t, n.SendOrderConfirmation(context.Background(), sampleConfirmation()))

	require.NotNil(t, published)
	assert.Equal(t, "arn:aws:sns:eu-west-2:000000000000:shop-notifications", *published.TopicArn)
	assert.Equal(t, EventOrderConfirmed, *published.MessageAttributes["event_type"].StringValue)

	var out struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(*published.Message), &out))
	assert.Equal(t, EventOrderConfirmed, out.Type)
	assert.Equal(t, float64(17), out.Payload["order_id"])
	assert.Contains(t, out.Payload["invoice"], "TOTAL: $30.50")
	client.AssertExpectations(t)
}

func TestSNSNotifier_RequiresTopic(t *testing.T) {
	_, err := NewSNSNotifier(&mockSNS{}, "")
	assert.Error(t, err)
}

func TestSNSNotifier_PublishError(t *testing.T) {
	client := &mockSNS{}
	client.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	n, err := NewSNSNotifier(client, "arn:topic")
	require.NoError(t, err)
	err = n.SendPasswordReset(context.Background(), PasswordReset{Email: "bob@example.com"})
	assert.ErrorContains(t, err, "throttled")
}

func TestDispatcher_LogsFailuresAndWaits(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(zap.New(core), time.Second)

	ran := make(chan struct{}, 2)
	d.Go("ok", func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})
	d.Go("broken", func(ctx context.Context) error {
		ran <- struct{}{}
		return errors.New("mail server unreachable")
	})
	d.Wait()

	assert.Len(t, ran, 2)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "broken", logs.All()[0].ContextMap()["job"])
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(zap.New(core), time.Second)

	d.Go("panicky", func(ctx context.Context) error { panic("boom") })
	d.Wait()

	assert.Equal(t, 1, logs.FilterMessage("notification job panicked").Len())
}

func TestDispatcher_DrainTimesOut(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), time.Second)
	release := make(chan struct{})
	d.Go("slow", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Drain(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, d.Drain(context.Background()))
}
