package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/next-levels/go-cms/database"

	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []*mail.Msg
	sendErr error
}

func (f *fakeSender) Send(_ context.Context, msgs ...*mail.Msg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msgs...)
	return nil
}

func (f *fakeSender) Verify(context.Context) error {
	return f.sendErr
}

func (f *fakeSender) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.GetGenHeader(mail.HeaderSubject)...)
	}
	return out
}

var errSMTPDown = errors.New("smtp down")

// setup opens a fresh sqlite database and installs a fake mail sender.
func setup(t *testing.T) *fakeSender {
	t.Helper()
	t.Setenv("AUTH_URL", "https://cms.example.local")
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "cms.db")))
	sender := &fakeSender{}
	SetMailSender(sender)
	t.Cleanup(func() {
		SetMailSender(nil)
		_ = database.CloseDB()
	})
	return sender
}
