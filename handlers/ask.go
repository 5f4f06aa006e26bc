package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ryoungl/health-information-harmonizer/data"
	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
)

// AskRequest is the /ask request body. Lang accepts "zh", "en" or anything
// else (including empty and "auto") for detection from the question itself.
type AskRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang"`
}

// AskResponse is the /ask reply. Groups and Recognized are never null;
// Answer carries either a model answer or one of the fixed fallback
// messages, and Disclaimer is always present.
type AskResponse struct {
	Question   string               `json:"question"`
	Lang       string               `json:"lang"`
	Recognized []string             `json:"recognized"`
	Groups     []entities.DrugGroup `json:"groups"`
	Answer     string               `json:"answer"`
	Disclaimer string               `json:"disclaimer"`
}

// resolveLang picks the reply language. Explicit zh/en pass through; any
// other value falls back to detection, where one Han rune makes the
// question Chinese.
func resolveLang(requested, question string) string {
	switch requested {
	case "zh", "en":
		return requested
	}
	if drugdb.ContainsHan(question) {
		return "zh"
	}
	return "en"
}

// AskQuestion orchestrates the /ask flow: extract candidate names with the
// model, resolve each against the catalog, and answer over the resolved
// groups. Extraction is advisory; when it yields nothing the raw question
// is matched lexically. Recognized-but-unresolved names never reach the
// model and get the safety guardrail instead.
func AskQuestion(dataContainer *data.DataContainer, validator interfaces.DataValidator, model interfaces.LanguageModel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := validator.ValidateQuestion(req.Question); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		question := strings.TrimSpace(req.Question)
		lang := resolveLang(req.Lang, question)

		var mentions []interfaces.DrugMention
		if model.Enabled() {
			var err error
			mentions, err = model.ExtractDrugNames(r.Context(), question)
			if err != nil {
				logging.Warn("Drug name extraction failed", "error", err)
				mentions = nil
			}
		}

		catalog := dataContainer.GetCatalog()

		recognized := []string{}
		var known []*entities.DrugRecord
		var unknown []string
		seenNames := make(map[string]bool)
		seenRecords := make(map[*entities.DrugRecord]bool)
		seenUnknown := make(map[string]bool)

		for _, m := range mentions {
			normalized := strings.TrimSpace(m.Normalized)
			raw := strings.TrimSpace(m.Raw)

			if normalized != "" && !seenNames[normalized] {
				seenNames[normalized] = true
				recognized = append(recognized, normalized)
			}

			lookup := normalized
			if lookup == "" {
				lookup = raw
			}

			if record := catalog.Resolve(lookup); record != nil {
				if !seenRecords[record] {
					seenRecords[record] = true
					known = append(known, record)
				}
				continue
			}

			display := raw
			if display == "" {
				display = normalized
			}
			if !seenUnknown[display] {
				seenUnknown[display] = true
				unknown = append(unknown, display)
			}
		}

		response := AskResponse{
			Question:   question,
			Lang:       lang,
			Recognized: recognized,
			Groups:     []entities.DrugGroup{},
			Disclaimer: disclaimer(lang),
		}

		switch {
		case len(known) > 0:
			response.Groups = drugdb.GroupRecords(known)
			answer, err := model.Answer(r.Context(), question, lang, response.Groups)
			if err != nil {
				logging.Warn("Answer generation failed", "error", err)
				answer = answerUnavailableMessage(lang)
			}
			if len(unknown) > 0 {
				answer += unlistedNote(lang, unknown)
			}
			response.Answer = answer

		case len(unknown) > 0:
			response.Answer = guardrailMessage(lang, unknown)

		default:
			// No candidates at all: match the raw question lexically
			groups := dataContainer.GetIndex().MatchGrouped(question)
			if len(groups) == 0 {
				response.Answer = noDrugsMessage(lang)
				break
			}

			response.Groups = groups
			for _, g := range groups {
				response.Recognized = append(response.Recognized, g.BaseName)
			}

			if !model.Enabled() {
				response.Answer = answerUnavailableMessage(lang)
				break
			}

			answer, err := model.Answer(r.Context(), question, lang, groups)
			if err != nil {
				logging.Warn("Answer generation failed", "error", err)
				answer = answerUnavailableMessage(lang)
			}
			response.Answer = answer
		}

		RespondWithJSON(w, r, http.StatusOK, response)
	}
}
