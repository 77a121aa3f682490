package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(authRejections.WithLabelValues("INVALID_TOKEN"))
	RecordAuthRejection("INVALID_TOKEN")
	assert.Equal(t, before+1, testutil.ToFloat64(authRejections.WithLabelValues("INVALID_TOKEN")))

	RecordAuthRejection("")
	assert.GreaterOrEqual(t, testutil.ToFloat64(authRejections.WithLabelValues("unknown")), 1.0)

	before = testutil.ToFloat64(graphqlOperations.WithLabelValues(OutcomeOK))
	RecordGraphQLOperation(OutcomeOK, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(graphqlOperations.WithLabelValues(OutcomeOK)))

	before = testutil.ToFloat64(discordLookups.WithLabelValues(LookupCacheHit))
	RecordDiscordLookup(LookupCacheHit)
	assert.Equal(t, before+1, testutil.ToFloat64(discordLookups.WithLabelValues(LookupCacheHit)))
}
