package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/retry"
	"plantpal-be/pkg/vision"
)

var testImage = vision.Image{Filename: "leaf.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}

func fastRetry() retry.Config {
	return retry.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, Multiplier: 2, MaxBackoff: 4 * time.Millisecond}
}

func identified(scientific, common string, confidence int) identifyResult {
	return identifyResult{candidate: &vision.Candidate{ScientificName: scientific, CommonName: common, ConfidencePercent: confidence}}
}

func failed(kind remote.ErrorKind) identifyResult {
	return identifyResult{err: &remote.Error{Provider: "fake", Kind: kind, Err: assert.AnError}}
}

func newIdentification(primary, secondary vision.Identifier, care ICareService, catalog OfflineCatalog) IIdentificationService {
	return NewIdentificationService(primary, secondary, care, catalog, rand.New(rand.NewSource(42)), logger.NewNopLogger())
}

// asIdentifier keeps a nil *fakeIdentifier from becoming a non-nil interface.
func asIdentifier(f *fakeIdentifier) vision.Identifier {
	if f == nil {
		return nil
	}
	return f
}

func withRetry(f *fakeIdentifier) vision.Identifier {
	return vision.WithRetry(f, fastRetry(), nil)
}

func TestIdentify_PrimarySuccessSkipsLowerTiers(t *testing.T) {
	primary := &fakeIdentifier{name: "plantnet", results: []identifyResult{identified("Monstera deliciosa", "Swiss Cheese Plant", 95)}}
	secondary := &fakeIdentifier{name: "openai", results: []identifyResult{identified("Ficus", "Fig", 50)}}
	care := &fakeCare{}

	outcome := newIdentification(primary, withRetry(secondary), care, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assert.Equal(t, entity.SourcePrimaryVision, outcome.Result.Source)
	assert.Equal(t, "Monstera deliciosa", outcome.Result.ScientificName)
	assert.Equal(t, 95, outcome.Result.ConfidencePercent)
	assert.Nil(t, outcome.Error)
	assert.False(t, outcome.OfflineMode)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 0, secondary.callCount())
	assert.Equal(t, []string{"Monstera deliciosa"}, care.species)
	assert.True(t, outcome.Result.Care.IsComplete())
}

func TestIdentify_SecondaryRateLimitIsNotRetried(t *testing.T) {
	primary := &fakeIdentifier{name: "plantnet", results: []identifyResult{failed(remote.KindNoCandidates)}}
	secondary := &fakeIdentifier{name: "openai", results: []identifyResult{failed(remote.KindRateLimited)}}
	care := &fakeCare{}

	outcome := newIdentification(primary, withRetry(secondary), care, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assert.Equal(t, 1, secondary.callCount())
	assert.Equal(t, entity.SourceOfflineDatabase, outcome.Result.Source)
	assert.True(t, outcome.OfflineMode)
	require.NotNil(t, outcome.Error)
	assert.Equal(t, entity.ReasonRateLimited, outcome.Error.Reason)
	assert.Equal(t, constant.MessageRateLimited, outcome.Error.Message)
	assert.Equal(t, knowledge.OfflineNote, outcome.Result.Note)
	assert.Empty(t, care.species, "offline tier must not fetch care remotely")
}

func TestIdentify_SecondaryTransientFailuresAreRetried(t *testing.T) {
	secondary := &fakeIdentifier{name: "openai", results: []identifyResult{
		failed(remote.KindTransientNetwork),
		failed(remote.KindTransientNetwork),
		identified("Pothos aureus", "Golden Pothos", 80),
	}}

	outcome := newIdentification(nil, withRetry(secondary), &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assert.Equal(t, 3, secondary.callCount())
	assert.Equal(t, entity.SourceSecondaryVision, outcome.Result.Source)
	assert.Nil(t, outcome.Error)
	assert.False(t, outcome.OfflineMode)
}

func TestIdentify_SecondaryFailureClassification(t *testing.T) {
	tests := []struct {
		kind       remote.ErrorKind
		wantCalls  int
		wantReason entity.ErrorReason
		wantMsg    string
	}{
		{remote.KindUnauthorized, 1, entity.ReasonUnauthorized, constant.MessageUnauthorized},
		{remote.KindMalformedResponse, 1, entity.ReasonServiceUnavailable, constant.MessageServiceUnavailable},
		{remote.KindRejected, 1, entity.ReasonServiceUnavailable, constant.MessageServiceUnavailable},
		{remote.KindTransientNetwork, 3, entity.ReasonServiceUnavailable, constant.MessageServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			secondary := &fakeIdentifier{name: "openai", results: []identifyResult{failed(tt.kind)}}

			outcome := newIdentification(nil, withRetry(secondary), &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)

			assert.Equal(t, tt.wantCalls, secondary.callCount())
			require.NotNil(t, outcome.Error)
			assert.Equal(t, tt.wantReason, outcome.Error.Reason)
			assert.Equal(t, tt.wantMsg, outcome.Error.Message)
			assert.True(t, outcome.OfflineMode)
		})
	}
}

func TestIdentify_NoCredentialsGoesStraightOffline(t *testing.T) {
	outcome := newIdentification(asIdentifier(nil), asIdentifier(nil), &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assert.Equal(t, entity.SourceOfflineDatabase, outcome.Result.Source)
	assert.Nil(t, outcome.Error)
	assert.True(t, outcome.OfflineMode)
	assert.True(t, strings.HasSuffix(outcome.Result.ScientificName, " (estimated)"))
	assert.GreaterOrEqual(t, outcome.Result.ConfidencePercent, 40)
	assert.LessOrEqual(t, outcome.Result.ConfidencePercent, 69)
	assert.True(t, outcome.Result.Care.IsComplete())
}

func TestIdentify_OfflinePickIsDeterministicForASeed(t *testing.T) {
	first := newIdentification(nil, nil, &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)
	second := newIdentification(nil, nil, &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assert.Equal(t, first.Result.ScientificName, second.Result.ScientificName)
	assert.Equal(t, first.Result.ConfidencePercent, second.Result.ConfidencePercent)
}

func TestIdentify_PanicFallsBackToGeneralGuidelines(t *testing.T) {
	primary := &fakeIdentifier{name: "plantnet", panicOn: true}

	outcome := newIdentification(primary, nil, &fakeCare{}, knowledge.NewCatalog()).Identify(context.Background(), testImage)

	assertTerminal(t, outcome)
}

func TestIdentify_EmptyCatalogFallsBackToGeneralGuidelines(t *testing.T) {
	outcome := newIdentification(nil, nil, &fakeCare{}, knowledge.NewCatalogFrom(nil)).Identify(context.Background(), testImage)

	assertTerminal(t, outcome)
}

func assertTerminal(t *testing.T, outcome entity.IdentificationOutcome) {
	t.Helper()
	assert.Equal(t, entity.SourceGenericFallback, outcome.Result.Source)
	assert.Equal(t, knowledge.UnidentifiedScientificName, outcome.Result.ScientificName)
	assert.Equal(t, knowledge.UnidentifiedCommonName, outcome.Result.CommonName)
	assert.Equal(t, 0, outcome.Result.ConfidencePercent)
	assert.Len(t, outcome.Result.Care.Tips, 5)
	assert.True(t, outcome.OfflineMode)
	require.NotNil(t, outcome.Error)
	assert.Equal(t, entity.ReasonIdentificationFailed, outcome.Error.Reason)
	assert.Equal(t, constant.MessageIdentifyFailed, outcome.Error.Message)
}
