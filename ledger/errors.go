package ledger

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/yashgajera132/blockchain-voting-system/common"
)

var revertReasonRe = regexp.MustCompile(`reason="([^"]+)"`)

// translateError maps raw RPC and signer errors to the domain failure kinds.
// Contract revert reasons are preserved verbatim so the caller can show the
// exact business-rule rejection, e.g. "Already voted in this election".
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrNotConnected
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied"):
		return common.ErrUserRejected
	case strings.Contains(msg, "execution reverted"):
		return common.NewRevertError(revertReason(msg))
	case strings.Contains(msg, "invalid chain id") || strings.Contains(msg, "wrong chain"):
		return common.ErrNetworkMismatch
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "i/o timeout"):
		return common.ErrNotConnected
	}
	return err
}

func revertReason(msg string) string {
	if m := revertReasonRe.FindStringSubmatch(msg); len(m) == 2 {
		return m[1]
	}
	if idx := strings.Index(msg, "execution reverted:"); idx >= 0 {
		reason := strings.TrimSpace(msg[idx+len("execution reverted:"):])
		if reason != "" {
			return reason
		}
	}
	return "transaction reverted"
}
