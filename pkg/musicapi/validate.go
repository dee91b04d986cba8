package musicapi

import "strings"

// normalizeModel applies the default and validates membership in the closed
// set. The zero value means the caller omitted the field.
func normalizeModel(m ModelVersion) (ModelVersion, *Error) {
	if m == "" {
		return DefaultModel, nil
	}
	if !m.Valid() {
		return "", Validationf("unknown model %q", string(m))
	}
	return m, nil
}

func validateWeight(name string, w *float64) *Error {
	if w == nil {
		return nil
	}
	if *w < 0 || *w > 1 {
		return Validationf("%s must be within [0, 1], got %v", name, *w)
	}
	return nil
}

func validateVocalGender(g string) *Error {
	if g == "" || g == "m" || g == "f" {
		return nil
	}
	return Validationf("vocal_gender must be \"m\" or \"f\", got %q", g)
}

// Validate checks the simple generation request and fills the model default.
func (r *GenerateRequest) Validate() *Error {
	if strings.TrimSpace(r.Prompt) == "" {
		return Validationf("prompt is required")
	}
	model, err := normalizeModel(r.Model)
	if err != nil {
		return err
	}
	r.Model = model
	return nil
}

// Validate checks the custom generation request and fills the model default.
func (r *CustomGenerateRequest) Validate() *Error {
	if strings.TrimSpace(r.Prompt) == "" {
		return Validationf("prompt is required")
	}
	if strings.TrimSpace(r.Tags) == "" {
		return Validationf("tags are required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return Validationf("title is required")
	}
	model, err := normalizeModel(r.Model)
	if err != nil {
		return err
	}
	r.Model = model
	if err := validateVocalGender(r.VocalGender); err != nil {
		return err
	}
	for _, w := range []struct {
		name string
		val  *float64
	}{
		{"style_weight", r.StyleWeight},
		{"weirdness_constraint", r.WeirdnessConstraint},
		{"audio_weight", r.AudioWeight},
	} {
		if err := validateWeight(w.name, w.val); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a transform request: exactly one source (task/audio pair
// or upload URL), valid model, weights and vocal gender.
func (r *TransformRequest) Validate() *Error {
	hasTask := r.TaskID != "" && r.AudioID != ""
	hasUpload := r.UploadURL != ""
	if r.TaskID != "" && r.AudioID == "" || r.AudioID != "" && r.TaskID == "" {
		return Validationf("task_id and audio_id must be supplied together")
	}
	if hasTask && hasUpload {
		return Validationf("supply either task_id/audio_id or upload_url, not both")
	}
	if !hasTask && !hasUpload {
		return Validationf("one of task_id/audio_id or upload_url is required")
	}
	model, err := normalizeModel(r.Model)
	if err != nil {
		return err
	}
	r.Model = model
	if err := validateVocalGender(r.VocalGender); err != nil {
		return err
	}
	for _, w := range []struct {
		name string
		val  *float64
	}{
		{"style_weight", r.StyleWeight},
		{"weirdness_constraint", r.WeirdnessConstraint},
		{"audio_weight", r.AudioWeight},
	} {
		if err := validateWeight(w.name, w.val); err != nil {
			return err
		}
	}
	if r.ContinueAt != nil && *r.ContinueAt < 0 {
		return Validationf("continue_at must not be negative")
	}
	return nil
}

// Validate checks the lyrics request.
func (r *LyricsRequest) Validate() *Error {
	if strings.TrimSpace(r.Prompt) == "" {
		return Validationf("prompt is required")
	}
	return nil
}

// Validate checks the stems separation request.
func (r *StemsRequest) Validate() *Error {
	if r.TaskID == "" || r.AudioID == "" {
		return Validationf("task_id and audio_id are required")
	}
	return nil
}

// Validate checks the WAV conversion request.
func (r *WavRequest) Validate() *Error {
	if r.TaskID == "" || r.AudioID == "" {
		return Validationf("task_id and audio_id are required")
	}
	return nil
}

// ValidateIDList checks a batch id list against the cap and empties.
func ValidateIDList(ids []string) *Error {
	if len(ids) == 0 {
		return Validationf("at least one id is required")
	}
	if len(ids) > MaxBatchIDs {
		return Validationf("at most %d ids per request, got %d", MaxBatchIDs, len(ids))
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return Validationf("ids must be non-empty")
		}
	}
	return nil
}
