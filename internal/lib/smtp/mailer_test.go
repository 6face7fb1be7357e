package smtp

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDialer struct{ mock.Mock }

func (m *MockDialer) Connect() (Client, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.(Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDialer) Sender() string { return m.Called().String(0) }

type MockClient struct{ mock.Mock }

func (m *MockClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *MockClient) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *MockClient) Quit() error            { return m.Called().Error(0) }
func (m *MockClient) Close() error           { return m.Called().Error(0) }
func (m *MockClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if w := args.Get(0); w != nil {
		return w.(io.WriteCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestMailer_Send(t *testing.T) {
	buf := &bufferCloser{}
	client := &MockClient{}
	client.On("Mail", "jam@example.com").Return(nil)
	client.On("Rcpt", "alice@example.com").Return(nil)
	client.On("Data").Return(buf, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	dialer := &MockDialer{}
	dialer.On("Connect").Return(client, nil)
	dialer.On("Sender").Return("jam@example.com")

	err := NewMailer(dialer).Send("alice@example.com", "Hi", "Pick your song")
	require.NoError(t, err)

	msg := buf.String()
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "\r\n\r\nPick your song")
	assert.True(t, buf.closed)
	client.AssertExpectations(t)
}

func TestMailer_SendErrors(t *testing.T) {
	t.Run("connect", func(t *testing.T) {
		dialer := &MockDialer{}
		dialer.On("Connect").Return(nil, errors.New("refused"))
		err := NewMailer(dialer).Send("a@b.c", "s", "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refused")
	})

	t.Run("rcpt rejected", func(t *testing.T) {
		client := &MockClient{}
		client.On("Mail", "jam@example.com").Return(nil)
		client.On("Rcpt", "bad").Return(errors.New("550 no such user"))
		client.On("Close").Return(nil)

		dialer := &MockDialer{}
		dialer.On("Connect").Return(client, nil)
		dialer.On("Sender").Return("jam@example.com")

		err := NewMailer(dialer).Send("bad", "s", "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rcpt to")
		client.AssertNotCalled(t, "Data")
	})
}
