package cruise

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const antiforgeryPath = "/payment/antiforgerytoken"

// antiforgery is the request token and cookie pair the payment endpoints require.
type antiforgery struct {
	token  string
	cookie *http.Cookie
}

func (c *Client) antiforgery(ctx context.Context) (*antiforgery, error) {
	var apiResp struct {
		RequestToken string `json:"requestToken"`
	}
	resp, err := c.postJSON(ctx, "antiforgery", antiforgeryPath, struct{}{}, nil, &apiResp)
	if err != nil {
		return nil, err
	}

	for _, cookie := range resp.cookies {
		if strings.Contains(cookie.Name, "AspNetCore.Antiforgery") {
			return &antiforgery{token: apiResp.RequestToken, cookie: cookie}, nil
		}
	}
	return nil, errors.New("antiforgery cookie missing from response")
}

// header builds the verification headers, appending any extra cookies.
func (a *antiforgery) header(cookies ...string) http.Header {
	parts := append([]string{a.cookie.Name + "=" + a.cookie.Value}, cookies...)
	h := http.Header{}
	h.Set("RequestVerificationToken", a.token)
	h.Set("Cookie", strings.Join(parts, "; "))
	return h
}
