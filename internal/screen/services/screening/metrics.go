package screening

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// DecisionMetric is the counter family incremented for every evaluation.
const DecisionMetric = `screen_decisions_total{channel="%s",action="%s",reason="%s"}`

func observeDecision(set *metrics.Set, ch domain.Channel, d domain.Decision) {
	if set == nil {
		return
	}
	action, reason := "allow", "none"
	if d.Block {
		action, reason = "block", d.Reason.String()
	}
	set.GetOrCreateCounter(fmt.Sprintf(DecisionMetric, ch, action, reason)).Inc()
}
