package alert

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

// SendTelegramMessage posts msg to the configured chat, prefixed with the
// service identity so multiple deployments can share one channel. Unset bot
// or chat ids disable alerting. Failures are logged, never surfaced: an
// alert must not take down the loop that raised it.
func SendTelegramMessage(cfg *config.AlertConfig, msg string) {
	if cfg.TelegramBotId == "" || cfg.TelegramChatId == "" || msg == "" {
		return
	}

	endPoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", cfg.TelegramBotId)
	formData := url.Values{
		"chat_id":    {cfg.TelegramChatId},
		"parse_mode": {"html"},
		"text":       {fmt.Sprintf("%s: %s", cfg.Identity, msg)},
	}
	if _, err := http.PostForm(endPoint, formData); err != nil {
		logging.Logger.Errorf("failed to send telegram alert, chat_id=%s, err=%s", cfg.TelegramChatId, err.Error())
	}
}
