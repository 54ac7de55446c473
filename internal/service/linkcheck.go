package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// LinkChecker validates that a task's target link matches its declared type.
type LinkChecker interface {
	Check(ctx context.Context, taskType domain.TaskType, link string) error
}

// hostRules maps each task type to the hostnames its links may point at.
// Website tasks accept any http(s) URL.
var hostRules = map[domain.TaskType][]string{
	domain.TaskTelegram:  {"t.me", "telegram.me"},
	domain.TaskWhatsapp:  {"wa.me", "chat.whatsapp.com", "whatsapp.com"},
	domain.TaskInstagram: {"instagram.com"},
	domain.TaskFacebook:  {"facebook.com", "fb.com"},
	domain.TaskYoutube:   {"youtube.com", "youtu.be"},
	domain.TaskTiktok:    {"tiktok.com", "vm.tiktok.com"},
}

// HostLinkChecker validates links against the per-type hostname allowlist.
// For telegram links it additionally probes the public preview page to weed
// out dead invite links; probe failures degrade to allow, validation is
// advisory there.
type HostLinkChecker struct {
	client *http.Client
	logger *slog.Logger
	probe  bool
}

func NewHostLinkChecker(logger *slog.Logger, probe bool) *HostLinkChecker {
	return &HostLinkChecker{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
		probe:  probe,
	}
}

func (c *HostLinkChecker) Check(ctx context.Context, taskType domain.TaskType, link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidLink
	}

	if taskType == domain.TaskWebsite {
		return nil
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	allowed := false
	for _, h := range hostRules[taskType] {
		if host == h || strings.HasSuffix(host, "."+h) {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.ErrInvalidLink
	}

	if c.probe && taskType == domain.TaskTelegram {
		if err := c.probeTelegram(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

// probeTelegram fetches the t.me preview page and checks it renders a real
// channel or group card. Network trouble is logged and ignored.
func (c *HostLinkChecker) probeTelegram(ctx context.Context, link string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return domain.ErrInvalidLink
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("telegram link probe failed", "link", link, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrInvalidLink
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("telegram link probe returned unexpected status", "link", link, "status", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn("telegram link probe parse failed", "link", link, "error", err)
		return nil
	}
	if doc.Find(".tgme_page_title").Length() == 0 {
		return domain.ErrInvalidLink
	}
	return nil
}

// NopLinkChecker accepts any syntactically valid http(s) link. Used in tests
// and when probing is disabled entirely.
type NopLinkChecker struct{}

func (NopLinkChecker) Check(_ context.Context, _ domain.TaskType, link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidLink
	}
	return nil
}
