package cruise

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const dealsPath = "/cruise-deals"

// Deals scrapes the current promotions from the deals page. Each promotion
// is an element carrying a data-rate-codes attribute; its description is the
// data-description attribute or, when absent, the element's text.
func (c *Client) Deals(ctx context.Context) ([]model.Deal, error) {
	resp, err := c.get(ctx, "deals", dealsPath, nil, http.Header{"Accept": {"text/html"}})
	if err != nil {
		return nil, err
	}
	return parseDeals(resp.body)
}

func parseDeals(page []byte) ([]model.Deal, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse deals page: %w", err)
	}

	var deals []model.Deal
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if codes, ok := attr(n, "data-rate-codes"); ok {
				if deal, ok := dealFromNode(n, codes); ok {
					deals = append(deals, deal)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return deals, nil
}

func dealFromNode(n *html.Node, codes string) (model.Deal, bool) {
	var rateCodes []string
	for _, code := range strings.Split(codes, ",") {
		if code = strings.TrimSpace(code); code != "" {
			rateCodes = append(rateCodes, code)
		}
	}
	if len(rateCodes) == 0 {
		return model.Deal{}, false
	}

	description, ok := attr(n, "data-description")
	if !ok {
		description = text(n)
	}
	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		return model.Deal{}, false
	}

	return model.Deal{Description: description, RateCodes: rateCodes}, true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
