package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hmdsef/taskpoint/internal/domain"
)

func TestHostLinkChecker(t *testing.T) {
	checker := NewHostLinkChecker(slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	cases := []struct {
		name     string
		taskType domain.TaskType
		link     string
		ok       bool
	}{
		{"Telegram Link", domain.TaskTelegram, "https://t.me/somechannel", true},
		{"Telegram With WWW", domain.TaskTelegram, "https://www.t.me/somechannel", true},
		{"Telegram Wrong Host", domain.TaskTelegram, "https://example.com/somechannel", false},
		{"Instagram Link", domain.TaskInstagram, "https://instagram.com/someone", true},
		{"Instagram Subdomain", domain.TaskInstagram, "https://www.instagram.com/someone", true},
		{"Youtube Short Link", domain.TaskYoutube, "https://youtu.be/abc123", true},
		{"Tiktok Link", domain.TaskTiktok, "https://vm.tiktok.com/xyz", true},
		{"Whatsapp Link", domain.TaskWhatsapp, "https://chat.whatsapp.com/invite", true},
		{"Website Accepts Anything HTTP", domain.TaskWebsite, "https://example.com/page", true},
		{"Not A URL", domain.TaskTelegram, "not a url", false},
		{"Wrong Scheme", domain.TaskWebsite, "ftp://example.com", false},
		{"Lookalike Host", domain.TaskTelegram, "https://t.me.evil.com/x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checker.Check(testCtx, tc.taskType, tc.link)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidLink)
			}
		})
	}
}
