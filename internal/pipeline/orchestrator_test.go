package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/idcard-intake/constants"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/extract"
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/vision"
)

type fakeGuesser struct {
	guess vision.Guess
	err   error
	panic bool
	calls int
}

func (f *fakeGuesser) GuessFields(context.Context, image.Image) (vision.Guess, []byte, error) {
	f.calls++
	if f.panic {
		panic("sdk exploded")
	}
	return f.guess, nil, f.err
}

type fakeText struct {
	text  string
	err   error
	calls int
}

func (f *fakeText) Extract(context.Context, image.Image) (extract.TextExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return extract.TextExtractionResult{}, f.err
	}
	return extract.TextExtractionResult{Text: f.text, Confidence: 0.5}, nil
}

var card = image.NewRGBA(image.Rect(0, 0, 10, 10))

func TestExtractVisionGuessOnly(t *testing.T) {
	g := &fakeGuesser{guess: vision.Guess{
		"firstName": "Asha", "lastName": "Verma", "dateOfBirth": "1990-08-15",
		"gender": "Female", "phone": "9876543210", "identifier": "123456789012",
	}}
	o := NewOrchestrator(nil, g, &fakeText{text: ""})

	rec := o.Extract(context.Background(), card)
	assert.Equal(t, constants.ConfidenceHigh, rec.ConfidenceTier)
	require.NotNil(t, rec.MaskedIdentifier)
	assert.Equal(t, "XXXX XXXX 9012", *rec.MaskedIdentifier)
	assert.Equal(t, "Asha", rec.FirstName)
	assert.Equal(t, "Verma", rec.LastName)
	require.NotNil(t, rec.Gender)
	assert.Equal(t, constants.Female, *rec.Gender)
	require.NotNil(t, rec.Phone)
	assert.Equal(t, "+91 98765 43210", *rec.Phone)
	assert.Empty(t, rec.RecognizedText)
}

func TestExtractOCROnly(t *testing.T) {
	o := NewOrchestrator(nil, vision.Disabled{}, &fakeText{
		text: "Name: Ravi Kumar\nDOB: 01-01-1985\nMale\n9988776655\n1234 5678 9012",
	})

	out := o.ExtractDetailed(context.Background(), card)
	rec := out.Record
	assert.Equal(t, "Ravi", rec.FirstName)
	assert.Equal(t, "Kumar", rec.LastName)
	require.NotNil(t, rec.DateOfBirth)
	assert.Equal(t, "1985-01-01", *rec.DateOfBirth)
	require.NotNil(t, rec.Gender)
	assert.Equal(t, constants.Male, *rec.Gender)
	require.NotNil(t, rec.Phone)
	assert.Equal(t, "+91 99887 76655", *rec.Phone)
	require.NotNil(t, rec.RawIdentifier)
	assert.Equal(t, "123456789012", *rec.RawIdentifier)
	assert.Equal(t, constants.ConfidenceHigh, rec.ConfidenceTier)
	assert.Equal(t, identity.SourceOCR, out.Provenance.Name)
	assert.NotEmpty(t, out.RequestID)
	assert.InDelta(t, 0.5, out.OCRConfidence, 0.0001)
}

func TestExtractBothCollaboratorsFail(t *testing.T) {
	g := &fakeGuesser{err: common.NewAppError("VISION_CALL", "boom", common.ErrUnavailable)}
	tx := &fakeText{err: errors.New("tesseract missing")}
	o := NewOrchestrator(nil, g, tx)

	rec := o.Extract(context.Background(), card)
	assert.Equal(t, identity.Record{ConfidenceTier: constants.ConfidenceLow}, rec)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, 1, tx.calls)
}

func TestExtractVisionPanicDegrades(t *testing.T) {
	o := NewOrchestrator(nil, &fakeGuesser{panic: true}, &fakeText{text: "Name: Ravi Kumar"})

	rec := o.Extract(context.Background(), card)
	assert.Equal(t, "Ravi", rec.FirstName)
	assert.Equal(t, constants.ConfidenceMedium, rec.ConfidenceTier)
}

func TestExtractPerFieldFallback(t *testing.T) {
	g := &fakeGuesser{guess: vision.Guess{"firstName": "Ravi", "lastName": "Kumar", "identifier": "12", "phone": nil}}
	o := NewOrchestrator(nil, g, &fakeText{text: "Name: Ravi Kumaar\nMob: 9988776655\n1234 5678 9012"})

	out := o.ExtractDetailed(context.Background(), card)
	rec := out.Record
	assert.Equal(t, "Kumar", rec.LastName)
	require.NotNil(t, rec.RawIdentifier)
	assert.Equal(t, "123456789012", *rec.RawIdentifier)
	require.NotNil(t, rec.Phone)
	assert.Equal(t, "+91 99887 76655", *rec.Phone)
	assert.Equal(t, identity.SourceAI, out.Provenance.Name)
	assert.Equal(t, identity.SourceOCR, out.Provenance.Identifier)
	assert.Equal(t, []string{"identifier"}, out.GuessDropped)
}

func TestExtractKeepsCallerRequestID(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil)
	out := o.ExtractDetailed(common.WithRequestID(context.Background(), "req-1"), card)
	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, constants.ConfidenceLow, out.Record.ConfidenceTier)
}

func TestNameAgreement(t *testing.T) {
	same := nameAgreement(identity.Fields{FirstName: "Ravi", LastName: "Kumar"}, identity.Fields{FirstName: "RAVI", LastName: "Kumar"})
	assert.InDelta(t, 1.0, same, 0.0001)

	diff := nameAgreement(identity.Fields{FirstName: "Ravi"}, identity.Fields{FirstName: "Zed"})
	assert.Less(t, diff, 0.7)
}
