package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct returns failures keyed by JSON field name, or nil.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"body": err.Error()}
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return fields
}

func init() {
	validate.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// uploadResponse is returned after a batch has been parsed.
type uploadResponse struct {
	SessionID string                  `json:"sessionId"`
	Documents []domain.ParsedDocument `json:"documents"`
	Errors    []string                `json:"errors"`
	ExpiresAt time.Time               `json:"expiresAt"`
}

// editRequest overrides fields of one classification.
type editRequest struct {
	ObjectType             *string                        `json:"objectType" validate:"omitempty,oneof=persona segment use_case business_rule icp"`
	ObjectName             *string                        `json:"objectName" validate:"omitempty,min=1"`
	Tags                   []string                       `json:"tags" validate:"omitempty,dive,required"`
	SuggestedRelationships []domain.SuggestedRelationship `json:"suggestedRelationships"`
	Confidence             *float64                       `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	NeedsReview            *bool                          `json:"needsReview"`
}

func (r editRequest) toEdit() domain.ClassificationEdit {
	edit := domain.ClassificationEdit{
		ObjectName:             r.ObjectName,
		Tags:                   r.Tags,
		SuggestedRelationships: r.SuggestedRelationships,
		Confidence:             r.Confidence,
		NeedsReview:            r.NeedsReview,
	}
	if r.ObjectType != nil {
		t := domain.KnowledgeType(*r.ObjectType)
		edit.ObjectType = &t
	}
	return edit
}

// approveRequest selects documents to submit. Overrides are not validated
// here: an invalid override is reported per document in the result.
type approveRequest struct {
	Indexes   []int                             `json:"indexes" validate:"required,min=1"`
	Submitter string                            `json:"submitter" validate:"required"`
	Overrides map[int]domain.ClassificationEdit `json:"overrides"`
}

// sessionResponse is a session with the merged classification per document.
type sessionResponse struct {
	*domain.UploadSession
	Effective map[int]domain.ClassificationResult `json:"effective"`
}

func newSessionResponse(sess *domain.UploadSession) sessionResponse {
	eff := make(map[int]domain.ClassificationResult, len(sess.Classifications))
	for i := range sess.Documents {
		if c := sess.Effective(i); c != nil {
			eff[i] = *c
		}
	}
	return sessionResponse{UploadSession: sess, Effective: eff}
}
