package budget_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/budget"
)

func TestPredictorClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var features budget.TripFeatures
		require.NoError(t, json.NewDecoder(r.Body).Decode(&features))
		assert.Equal(t, "Munnar", features.Destination)
		assert.Equal(t, 3, features.DurationDays)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_amount":14250.0}`))
	}))
	defer server.Close()

	client := budget.NewPredictorClient(budget.PredictorClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	amount, err := client.Predict(context.Background(), budget.TripFeatures{
		Destination:     "Munnar",
		DurationDays:    3,
		TravelType:      "family",
		PrimaryInterest: "nature",
		Budget:          15000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 14250, amount, 0.001)
}

func TestPredictorClient_Predict_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := budget.NewPredictorClient(budget.PredictorClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Predict(context.Background(), budget.TripFeatures{Destination: "Munnar"})
	assert.ErrorIs(t, err, budget.ErrPredictorUnavailable)
}
