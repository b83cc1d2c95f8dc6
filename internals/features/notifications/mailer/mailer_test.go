package mailer

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_backend/internals/configs"
)

func TestNew_FallsBackToLogMailer(t *testing.T) {
	m := New(configs.SMTPConfig{Host: "smtp.example.com", Port: 465})
	_, ok := m.(LogMailer)
	assert.True(t, ok)

	m = New(configs.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Password: "p", From: "x@example.com"})
	s, ok := m.(*SMTPMailer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", s.addr)
	assert.False(t, s.tls)
}

func TestLogMailer_RequiresRecipient(t *testing.T) {
	assert.ErrorIs(t, LogMailer{}.Send(context.Background(), Message{}), ErrNoRecipient)
	assert.NoError(t, LogMailer{}.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"}))
}

func TestSMTPMailer_ContextBoundsDial(t *testing.T) {
	// port 9 on a TEST-NET address never answers
	m := NewSMTPMailer(configs.SMTPConfig{Host: "192.0.2.1", Port: 9, User: "u", Password: "p", From: "x@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := m.Send(ctx, Message{To: "a@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)
}

// fakeSMTP accepts every message after waiting greetDelay before the banner.
type fakeSMTP struct {
	ln         net.Listener
	greetDelay time.Duration
	delivered  atomic.Int32
}

func startFakeSMTP(t *testing.T, greetDelay time.Duration) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, greetDelay: greetDelay}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f
}

func (f *fakeSMTP) serve(conn net.Conn) {
	defer conn.Close()
	time.Sleep(f.greetDelay)
	r := bufio.NewReader(conn)
	reply := func(line string) bool {
		_, err := conn.Write([]byte(line + "\r\n"))
		return err == nil
	}
	if !reply("220 fake ESMTP") {
		return
	}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			reply("250-fake")
			reply("250 8BITMIME")
		case strings.HasPrefix(cmd, "HELO"), strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
			reply("250 ok")
		case cmd == "DATA":
			reply("354 go ahead")
			for {
				body, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if body == ".\r\n" {
					break
				}
			}
			f.delivered.Add(1)
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 unsupported")
		}
	}
}

func (f *fakeSMTP) config(timeout time.Duration) configs.SMTPConfig {
	addr := f.ln.Addr().(*net.TCPAddr)
	return configs.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		User:     "u",
		Password: "p",
		From:     `"Workshop" <noreply@example.com>`,
		Timeout:  timeout,
	}
}

func TestSMTPMailer_DeliversToFakeServer(t *testing.T) {
	srv := startFakeSMTP(t, 0)
	m := NewSMTPMailer(srv.config(2 * time.Second))
	assert.Equal(t, "noreply@example.com", m.sender)
	assert.Equal(t, "127.0.0.1:"+strconv.Itoa(srv.ln.Addr().(*net.TCPAddr).Port), m.addr)

	err := m.Send(context.Background(), Message{To: "b@example.com", Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.delivered.Load())
}

func TestSMTPMailer_SlowServerOutlivesContext(t *testing.T) {
	srv := startFakeSMTP(t, 300*time.Millisecond)
	m := NewSMTPMailer(srv.config(5 * time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// a started session is finished, so success is reported for a delivered message
	err := m.Send(ctx, Message{To: "b@example.com", Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.delivered.Load())
}

func TestSMTPMailer_SessionDeadline(t *testing.T) {
	srv := startFakeSMTP(t, time.Second)
	m := NewSMTPMailer(srv.config(150 * time.Millisecond))

	err := m.Send(context.Background(), Message{To: "b@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)

	// give the server time to finish its delay; the dropped session must not deliver
	time.Sleep(1200 * time.Millisecond)
	assert.EqualValues(t, 0, srv.delivered.Load())
}
