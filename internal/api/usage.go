package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anomredux/slt-usage/internal/domain"
)

// noPrivilege is the backend's wording for a subscriber ID that does not
// belong to the logged-in account.
const noPrivilege = "No privilege"

// usageResponse mirrors the usage endpoint. The error key is misspelled by
// the backend and must stay that way.
type usageResponse struct {
	ErrorMessege string      `json:"errorMessege"`
	DataBundle   *dataBundle `json:"dataBundle"`
}

type dataBundle struct {
	MyPackageSummary *packageSummary `json:"my_package_summary"`
	VasDataSummary   *packageSummary `json:"vas_data_summary"`
}

type packageSummary struct {
	Limit      quantity `json:"limit"`
	Used       quantity `json:"used"`
	VolumeUnit string   `json:"volume_unit"`
}

// quantity accepts a JSON number or a finite numeric string. null, a
// missing key and "" all leave it unset.
type quantity struct {
	Value float64
	Set   bool
}

func (q *quantity) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*q = quantity{}
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		*q = quantity{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid quantity %s", b)
	}
	*q = quantity{Value: v, Set: true}
	return nil
}

// FetchUsage returns the normalized data quota for subscriberID. Any error
// reported by the backend clears stored credentials first.
func (c *Client) FetchUsage(ctx context.Context, session domain.Session, subscriberID string) (domain.UsageSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := url.Parse(c.ep.UsageURL)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("parse usage url: %w", err)
	}
	q := u.Query()
	q.Set("subscriberID", subscriberID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.UsageSummary{}, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	status, body, err := c.do(req)
	if err != nil {
		return domain.UsageSummary{}, &domain.NetworkError{Op: "usage request", Err: err}
	}
	c.log.WithField("status", status).Debug("usage response")

	var out usageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.UsageSummary{}, &domain.BackendError{Status: status, Message: "usage response is not JSON"}
	}
	if out.ErrorMessege != "" {
		if strings.Contains(out.ErrorMessege, noPrivilege) {
			return domain.UsageSummary{}, c.reject(&domain.InvalidSubscriberError{
				SubscriberID: subscriberID,
				Message:      out.ErrorMessege,
			})
		}
		return domain.UsageSummary{}, c.reject(&domain.BackendError{Message: out.ErrorMessege})
	}

	summary, err := normalize(out.DataBundle)
	if err != nil {
		return domain.UsageSummary{}, &domain.BackendError{Status: status, Message: err.Error()}
	}
	return summary, nil
}

// normalize picks the summary that carries the real quota. Plans whose
// package summary has no limit report their data under vas_data_summary.
// A missing limit key and "" count as null here, so they fall back too.
func normalize(b *dataBundle) (domain.UsageSummary, error) {
	if b == nil || b.MyPackageSummary == nil {
		return domain.UsageSummary{}, fmt.Errorf("usage response has no package summary")
	}

	src := b.MyPackageSummary
	if !src.Limit.Set {
		if b.VasDataSummary == nil {
			return domain.UsageSummary{}, fmt.Errorf("package summary has no limit and no VAS summary")
		}
		src = b.VasDataSummary
	}
	if !src.Limit.Set || !(src.Limit.Value > 0) || math.IsInf(src.Limit.Value, 0) {
		return domain.UsageSummary{}, fmt.Errorf("usage summary has no positive limit")
	}

	return domain.UsageSummary{
		Limit:      src.Limit.Value,
		Used:       src.Used.Value,
		VolumeUnit: src.VolumeUnit,
	}, nil
}
