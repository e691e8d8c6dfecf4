package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rsilvagit/go-manga/internal/model"
)

// Telegram rejects messages over 4096 characters.
const telegramLimit = 3800

// TelegramWriter sends results to a Telegram chat via the Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

var _ ResultWriter = (*TelegramWriter)(nil)

// NewTelegramWriter posts as the bot identified by token. A nil client uses
// a default one with a 15s timeout.
func NewTelegramWriter(token, chatID string, client *http.Client) *TelegramWriter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		apiBase: "https://api.telegram.org",
		client:  client,
	}
}

func (tw *TelegramWriter) WriteSearch(list []model.MangaObject) error {
	if len(list) == 0 {
		return tw.send(escapeMarkdown("No manga found."))
	}
	entries := make([]string, len(list))
	for i, m := range list {
		entries[i] = formatTelegramManga(i+1, m)
	}
	header := fmt.Sprintf("*Found %d manga:*\n\n", len(list))
	return tw.sendAll(chunk(header, entries, telegramLimit))
}

func (tw *TelegramWriter) WriteManga(m model.MangaObject) error {
	text := formatTelegramManga(0, m)
	if m.Description != "" {
		desc := truncate(m.Description, 1500)
		text += escapeMarkdown(desc) + "\n"
	}
	return tw.send(text)
}

func (tw *TelegramWriter) WriteChapters(chapters []model.Chapter) error {
	if len(chapters) == 0 {
		return tw.send(escapeMarkdown("No chapters found."))
	}
	entries := make([]string, len(chapters))
	for i, c := range chapters {
		label := escapeMarkdown(fmt.Sprintf("%g. %s", c.Number, c.Value.String()))
		if c.URL != nil {
			entries[i] = fmt.Sprintf("[%s](%s)\n", label, c.URL)
		} else {
			entries[i] = label + "\n"
		}
	}
	header := escapeMarkdown(fmt.Sprintf("%d chapter(s):", len(chapters))) + "\n\n"
	return tw.sendAll(chunk(header, entries, telegramLimit))
}

// formatTelegramManga renders m in MarkdownV2; n <= 0 omits the number.
func formatTelegramManga(n int, m model.MangaObject) string {
	var b strings.Builder
	if n > 0 {
		fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(m.Title()))
	} else {
		fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(m.Title()))
	}
	fmt.Fprintf(&b, "Source: %s\n", escapeMarkdown(m.Source()))
	if authors := joinNames(m.Authors); authors != "" {
		fmt.Fprintf(&b, "Authors: %s\n", escapeMarkdown(authors))
	}
	if genres := joinNames(m.Genres); genres != "" {
		fmt.Fprintf(&b, "Genres: %s\n", escapeMarkdown(genres))
	}
	if m.URL != nil {
		fmt.Fprintf(&b, "[Open](%s)\n", m.URL)
	}
	b.WriteString("\n")
	return b.String()
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

func (tw *TelegramWriter) sendAll(msgs []string) error {
	for _, msg := range msgs {
		if err := tw.send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (tw *TelegramWriter) send(text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", tw.apiBase, tw.token)

	payload := map[string]string{
		"chat_id":    tw.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	resp, err := tw.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %v", resp.StatusCode, result["description"])
	}

	return nil
}
