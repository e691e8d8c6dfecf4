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

// Discord rejects messages over 2000 characters.
const discordLimit = 1900

// DiscordWriter sends results to a Discord channel via Webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

var _ ResultWriter = (*DiscordWriter)(nil)

// NewDiscordWriter posts to webhookURL. A nil client uses a default one
// with a 15s timeout.
func NewDiscordWriter(webhookURL string, client *http.Client) *DiscordWriter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DiscordWriter{webhookURL: webhookURL, client: client}
}

func (dw *DiscordWriter) WriteSearch(list []model.MangaObject) error {
	if len(list) == 0 {
		return dw.send("No manga found.")
	}
	entries := make([]string, len(list))
	for i, m := range list {
		entries[i] = formatDiscordManga(i+1, m)
	}
	return dw.sendAll(chunk(fmt.Sprintf("**Found %d manga:**\n\n", len(list)), entries, discordLimit))
}

func (dw *DiscordWriter) WriteManga(m model.MangaObject) error {
	var b strings.Builder
	b.WriteString(formatDiscordManga(0, m))
	if m.Description != "" {
		desc := truncate(m.Description, 1000)
		fmt.Fprintf(&b, "%s\n", desc)
	}
	return dw.send(b.String())
}

func (dw *DiscordWriter) WriteChapters(chapters []model.Chapter) error {
	if len(chapters) == 0 {
		return dw.send("No chapters found.")
	}
	entries := make([]string, len(chapters))
	for i, c := range chapters {
		entries[i] = fmt.Sprintf("> %g. [%s](%s)\n", c.Number, c.Value.String(), urlString(c.URL))
	}
	return dw.sendAll(chunk(fmt.Sprintf("**%d chapter(s):**\n\n", len(chapters)), entries, discordLimit))
}

// formatDiscordManga renders m as a quote block; n <= 0 omits the number.
func formatDiscordManga(n int, m model.MangaObject) string {
	var b strings.Builder
	if n > 0 {
		fmt.Fprintf(&b, "**%d. %s**\n", n, m.Title())
	} else {
		fmt.Fprintf(&b, "**%s**\n", m.Title())
	}
	fmt.Fprintf(&b, "> Source: %s\n", m.Source())
	if authors := joinNames(m.Authors); authors != "" {
		fmt.Fprintf(&b, "> Authors: %s\n", authors)
	}
	if genres := joinNames(m.Genres); genres != "" {
		fmt.Fprintf(&b, "> Genres: %s\n", genres)
	}
	if m.URL != nil {
		fmt.Fprintf(&b, "> [Open](%s)\n", m.URL)
	}
	b.WriteString("\n")
	return b.String()
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) sendAll(msgs []string) error {
	for _, msg := range msgs {
		if err := dw.send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (dw *DiscordWriter) send(text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	resp, err := dw.client.Post(dw.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %v", resp.StatusCode, result["message"])
	}

	return nil
}
