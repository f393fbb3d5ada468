package security

import (
	"context"
	"fmt"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

// Gate screens every inbound message before anything else runs. A pattern
// pre-filter handles the obvious cases locally; everything else goes through
// the generative chain for a structured verdict.
type Gate struct {
	cfg      *config.SecurityConfig
	provider core.GenerativeProvider
}

func NewGate(cfg *config.SecurityConfig, provider core.GenerativeProvider) *Gate {
	return &Gate{cfg: cfg, provider: provider}
}

func (g *Gate) Classify(ctx context.Context, message, userID string) (core.SecurityVerdict, error) {
	logger := log.FromCtx(ctx)

	if issues := patternCheck(message, g.cfg.MaxMessageLen); len(issues) > 0 {
		verdict := core.SecurityVerdict{
			IsSafe:         false,
			RiskLevel:      core.RiskHigh,
			DetectedIssues: issues,
			Reason:         "matched adversarial pattern",
			Confidence:     1.0,
			ServiceUsed:    "pattern",
		}
		logVerdict(ctx, verdict, message, userID)
		return verdict, nil
	}

	verdict, err := classify(ctx, g.provider, message)
	if err != nil {
		if g.cfg.FailMode == config.FailOpen {
			logger.Warn().Err(err).Str("user_id", userID).
				Msg("Classifier unavailable, degrading to pattern-only verdict")
			verdict = core.SecurityVerdict{
				IsSafe:      true,
				RiskLevel:   core.RiskLow,
				Reason:      "classifier unavailable, pattern pre-filter passed",
				ServiceUsed: "pattern",
			}
			logVerdict(ctx, verdict, message, userID)
			return verdict, nil
		}
		return core.SecurityVerdict{}, fmt.Errorf("%w: %w", core.ErrSecurityCheckFailed, err)
	}

	logVerdict(ctx, verdict, message, userID)
	return verdict, nil
}

func logVerdict(ctx context.Context, v core.SecurityVerdict, message, userID string) {
	log.FromCtx(ctx).Info().
		Str("user_id", userID).
		Bool("is_safe", v.IsSafe).
		Str("risk_level", string(v.RiskLevel)).
		Str("service_used", v.ServiceUsed).
		Strs("issues", v.DetectedIssues).
		Str("preview", truncateRunes(message, 80)).
		Msg("Security verdict")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
