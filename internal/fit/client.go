package fit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/fitness/v1"

const (
	stepsDataSource     = "derived:com.google.step_count.delta:com.google.android.gms:estimated_steps"
	weightDataSource    = "derived:com.google.weight:com.google.android.gms:merge_weight"
	nutritionDataSource = "derived:com.google.nutrition:com.google.android.gms:merge_nutrition"
	activityDataSource  = "derived:com.google.activity.segment:com.google.android.gms:merge_activity_segments"
)

// Sleep stage codes reported by the platform. Awake and out-of-bed
// segments do not count towards the night's total.
const (
	sleepStageAwake    = 1
	sleepStageOutOfBed = 3
)

// mealTypeUnknown is the nutrition point meal tag the mobile clients use.
const mealTypeUnknown = 3

var (
	// ErrNoToken is returned when no Google Fit access token is available.
	ErrNoToken = errors.New("no google fit token")
	// ErrUnauthorized is returned when the access token was rejected.
	ErrUnauthorized = errors.New("google fit token rejected")
)

// Client reads and writes Google Fit data over the REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     oauth2.TokenSource
	now        func() time.Time
}

// NewClient creates a Google Fit API client. tokens provides the user's
// OAuth access token per call.
func NewClient(tokens oauth2.TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		tokens:     tokens,
		now:        time.Now,
	}
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
	DataSourceID string `json:"dataSourceId,omitempty"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateResponse struct {
	Bucket []struct {
		Dataset []struct {
			Point []dataPoint `json:"point"`
		} `json:"dataset"`
	} `json:"bucket"`
}

type dataPoint struct {
	DataTypeName   string      `json:"dataTypeName"`
	StartTimeNanos json.Number `json:"startTimeNanos"`
	EndTimeNanos   json.Number `json:"endTimeNanos"`
	Value          []dataValue `json:"value"`
}

type dataValue struct {
	IntVal *int64       `json:"intVal,omitempty"`
	FpVal  *float64     `json:"fpVal,omitempty"`
	MapVal []mapValItem `json:"mapVal,omitempty"`
}

type mapValItem struct {
	Key   string `json:"key"`
	Value struct {
		FpVal float64 `json:"fpVal"`
	} `json:"value"`
}

type datasetPatch struct {
	DataSourceID   string       `json:"dataSourceId"`
	MinStartTimeNs int64        `json:"minStartTimeNs"`
	MaxEndTimeNs   int64        `json:"maxEndTimeNs"`
	Point          []patchPoint `json:"point"`
}

type patchPoint struct {
	DataTypeName   string            `json:"dataTypeName"`
	StartTimeNanos int64             `json:"startTimeNanos"`
	EndTimeNanos   int64             `json:"endTimeNanos"`
	Value          []json.RawMessage `json:"value"`
}

type sessionsResponse struct {
	Session []struct {
		StartTimeMillis json.Number `json:"startTimeMillis"`
		EndTimeMillis   json.Number `json:"endTimeMillis"`
	} `json:"session"`
}

// DailySteps returns the step total from local midnight until now.
func (c *Client) DailySteps(ctx context.Context) (int, error) {
	now := c.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := startOfDay.UnixMilli()
	end := now.UnixMilli()

	body := aggregateRequest{
		AggregateBy: []aggregateBy{{
			DataTypeName: "com.google.step_count.delta",
			DataSourceID: stepsDataSource,
		}},
		BucketByTime:    bucketByTime{DurationMillis: end - start},
		StartTimeMillis: start,
		EndTimeMillis:   end,
	}

	var resp aggregateResponse
	if err := c.do(ctx, http.MethodPost, "/users/me/dataset:aggregate", body, &resp); err != nil {
		return 0, err
	}

	for _, bucket := range resp.Bucket {
		for _, ds := range bucket.Dataset {
			for _, p := range ds.Point {
				if len(p.Value) > 0 && p.Value[0].IntVal != nil {
					return int(*p.Value[0].IntVal), nil
				}
			}
		}
	}
	return 0, nil
}

// SleepHours returns last night's sleep duration in hours, rounded to
// one decimal. The query window runs from yesterday noon so sessions
// straddling midnight are caught whole.
func (c *Client) SleepHours(ctx context.Context) (float64, error) {
	now := c.now()
	todayNoon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	start := todayNoon.Add(-24 * time.Hour).UnixMilli()
	end := todayNoon.Add(2 * time.Hour).UnixMilli()
	if nowMillis := now.UnixMilli(); nowMillis < end {
		end = nowMillis
	}

	body := aggregateRequest{
		AggregateBy:     []aggregateBy{{DataTypeName: "com.google.sleep.segment"}},
		BucketByTime:    bucketByTime{DurationMillis: end - start},
		StartTimeMillis: start,
		EndTimeMillis:   end,
	}

	var resp aggregateResponse
	if err := c.do(ctx, http.MethodPost, "/users/me/dataset:aggregate", body, &resp); err != nil {
		return 0, err
	}

	var totalMillis float64
	for _, bucket := range resp.Bucket {
		for _, ds := range bucket.Dataset {
			for _, p := range ds.Point {
				if len(p.Value) == 0 || p.Value[0].IntVal == nil {
					continue
				}
				stage := *p.Value[0].IntVal
				if stage == sleepStageAwake || stage == sleepStageOutOfBed {
					continue
				}
				startNs, err1 := p.StartTimeNanos.Int64()
				endNs, err2 := p.EndTimeNanos.Int64()
				if err1 != nil || err2 != nil {
					continue
				}
				totalMillis += float64(endNs-startNs) / 1e6
			}
		}
	}
	if totalMillis > 0 {
		return roundTenth(totalMillis / (1000 * 60 * 60)), nil
	}

	// Manual entries sometimes exist only as sessions.
	return c.sleepFromSessions(ctx, start, end)
}

func (c *Client) sleepFromSessions(ctx context.Context, startMillis, endMillis int64) (float64, error) {
	q := url.Values{}
	q.Set("startTime", time.UnixMilli(startMillis).UTC().Format(time.RFC3339))
	q.Set("endTime", time.UnixMilli(endMillis).UTC().Format(time.RFC3339))
	q.Set("activityType", "72")

	var resp sessionsResponse
	if err := c.do(ctx, http.MethodGet, "/users/me/sessions?"+q.Encode(), nil, &resp); err != nil {
		return 0, err
	}

	var totalMillis int64
	for _, s := range resp.Session {
		startNs, err1 := s.StartTimeMillis.Int64()
		endNs, err2 := s.EndTimeMillis.Int64()
		if err1 != nil || err2 != nil {
			continue
		}
		totalMillis += endNs - startNs
	}
	if totalMillis <= 0 {
		return 0, nil
	}
	return roundTenth(float64(totalMillis) / (1000 * 60 * 60)), nil
}

// PushWeight writes an instantaneous weight point.
func (c *Client) PushWeight(ctx context.Context, weightKg float64) error {
	ts := c.now().UnixNano()
	val, _ := json.Marshal(dataValue{FpVal: &weightKg})
	body := datasetPatch{
		DataSourceID:   weightDataSource,
		MinStartTimeNs: ts,
		MaxEndTimeNs:   ts,
		Point: []patchPoint{{
			DataTypeName:   "com.google.weight",
			StartTimeNanos: ts,
			EndTimeNanos:   ts,
			Value:          []json.RawMessage{val},
		}},
	}
	path := fmt.Sprintf("/users/me/dataSources/%s/datasets/%d-%d", weightDataSource, ts, ts)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// PushNutrition writes a meal's macros as a nutrition point.
func (c *Client) PushNutrition(ctx context.Context, item domain.Analysis) error {
	ts := c.now().UnixNano()

	nutrients := []mapValItem{
		nutrient("calories", item.Calories.Total),
		nutrient("protein", item.Macros.ProteinG),
		nutrient("fat.total", item.Macros.FatG),
		nutrient("carbs.total", item.Macros.CarbsG),
		nutrient("dietary_fiber", item.Macros.FiberG),
	}

	mapPart, _ := json.Marshal(dataValue{MapVal: nutrients})
	mealType := int64(mealTypeUnknown)
	mealPart, _ := json.Marshal(dataValue{IntVal: &mealType})

	body := datasetPatch{
		DataSourceID:   nutritionDataSource,
		MinStartTimeNs: ts,
		MaxEndTimeNs:   ts,
		Point: []patchPoint{{
			DataTypeName:   "com.google.nutrition",
			StartTimeNanos: ts,
			EndTimeNanos:   ts,
			Value:          []json.RawMessage{mapPart, mealPart},
		}},
	}
	path := fmt.Sprintf("/users/me/dataSources/%s/datasets/%d-%d", nutritionDataSource, ts, ts)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// PushExercise writes an activity segment for a logged workout.
func (c *Client) PushExercise(ctx context.Context, log domain.ExerciseLog) error {
	duration := 30 * time.Minute
	if log.Unit == "min" && log.Amount > 0 {
		duration = time.Duration(log.Amount) * time.Minute
	}

	end := c.now()
	start := end.Add(-duration)
	startNs := start.UnixNano()
	endNs := end.UnixNano()

	activityID := activityIDForType(log.Type)
	val, _ := json.Marshal(dataValue{IntVal: &activityID})

	body := datasetPatch{
		DataSourceID:   activityDataSource,
		MinStartTimeNs: startNs,
		MaxEndTimeNs:   endNs,
		Point: []patchPoint{{
			DataTypeName:   "com.google.activity.segment",
			StartTimeNanos: startNs,
			EndTimeNanos:   endNs,
			Value:          []json.RawMessage{val},
		}},
	}
	path := fmt.Sprintf("/users/me/dataSources/%s/datasets/%d-%d", activityDataSource, startNs, endNs)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// Activity type codes from the platform's activity taxonomy.
func activityIDForType(exerciseType string) int64 {
	t := strings.ToLower(exerciseType)
	switch {
	case strings.Contains(t, "run"):
		return 8
	case strings.Contains(t, "cycl") || strings.Contains(t, "bike"):
		return 1
	case strings.Contains(t, "swim"):
		return 82
	case strings.Contains(t, "weight") || strings.Contains(t, "gym"):
		return 97
	case strings.Contains(t, "yoga"):
		return 100
	case strings.Contains(t, "soccer") || strings.Contains(t, "football"):
		return 25
	default:
		return 7 // walking
	}
}

func nutrient(key string, fpVal float64) mapValItem {
	item := mapValItem{Key: key}
	item.Value.FpVal = fpVal
	return item
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.tokens == nil {
		return ErrNoToken
	}
	token, err := c.tokens.Token()
	if err != nil || token == nil || strings.TrimSpace(token.AccessToken) == "" {
		return ErrNoToken
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google fit api status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StaticToken adapts a raw access token string to an oauth2.TokenSource.
func StaticToken(accessToken string) oauth2.TokenSource {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
}
