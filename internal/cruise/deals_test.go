package cruise

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const dealsPage = `<!DOCTYPE html>
<html><body>
  <section class="deals">
    <div class="deal" data-rate-codes="KSF, KS2" data-description="Kids sail free">
      <h3>ignored heading</h3>
    </div>
    <div class="deal" data-rate-codes="H50">
      <h3>Half   off</h3>
      <p>second guest</p>
    </div>
    <div class="deal" data-rate-codes=" , ">No codes</div>
    <div class="deal" data-rate-codes="EMPTY"></div>
    <div class="promo">Not a deal</div>
  </section>
</body></html>`

func TestParseDeals(t *testing.T) {
	deals, err := parseDeals([]byte(dealsPage))
	require.NoError(t, err)

	assert.Equal(t, []model.Deal{
		{Description: "Kids sail free", RateCodes: []string{"KSF", "KS2"}},
		{Description: "Half off second guest", RateCodes: []string{"H50"}},
	}, deals)
}

func TestDeals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(dealsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(dealsPage))
	})
	client := newTestClient(t, mux)

	deals, err := client.Deals(context.Background())
	require.NoError(t, err)
	assert.Len(t, deals, 2)
}

func TestDeals_EmptyPage(t *testing.T) {
	deals, err := parseDeals([]byte("<html><body><p>No promotions today</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, deals)
}
