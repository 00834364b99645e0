package email

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Message is an email captured by MockClient.
type Message struct {
	Recipient models.Email
	Subject   string
	Content   string
}

// MockClient keeps sent messages in memory instead of delivering them.
type MockClient struct {
	mu       sync.Mutex
	messages []Message
	logger   logging.Logger
}

func NewMockClient(l logging.Logger) *MockClient {
	return &MockClient{logger: l.With("module", "mock_email")}
}

func (c *MockClient) SendEmail(ctx context.Context, recipient models.Email, subject, content string) error {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Recipient: recipient, Subject: subject, Content: content})
	c.mu.Unlock()

	c.logger.Info(ctx, "email captured", "recipient", recipient, "subject", subject)
	return nil
}

// Messages returns a copy of everything sent so far.
func (c *MockClient) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message.
func (c *MockClient) Last() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
