package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailerSend(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, sender: "rides@example.com"}

	if err := m.Send(context.Background(), "user@example.com", "Booking confirmed", "See you soon"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	in := fake.input
	if aws.ToString(in.FromEmailAddress) != "rides@example.com" {
		t.Errorf("from = %q", aws.ToString(in.FromEmailAddress))
	}
	if len(in.Destination.ToAddresses) != 1 || in.Destination.ToAddresses[0] != "user@example.com" {
		t.Errorf("to = %v", in.Destination.ToAddresses)
	}
	if aws.ToString(in.Content.Simple.Subject.Data) != "Booking confirmed" {
		t.Errorf("subject = %q", aws.ToString(in.Content.Simple.Subject.Data))
	}
}

func TestSESMailerSkipsEmptyRecipient(t *testing.T) {
	fake := &fakeSES{err: errors.New("should not be called")}
	m := &SESMailer{client: fake, sender: "rides@example.com"}
	if err := m.Send(context.Background(), "", "s", "b"); err != nil {
		t.Errorf("err = %v; want nil", err)
	}
	if fake.input != nil {
		t.Error("SendEmail called for an empty recipient")
	}
}
