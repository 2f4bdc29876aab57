package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var entityKeys = map[string]bool{
	"timesheet_id": true, "invoice_number": true, "expense_id": true,
	"project_id": true, "talent_id": true, "user_id": true,
	"start_date": true, "end_date": true, "status": true,
	"hours": true, "amount": true, "currency": true,
}

var numericEntityKeys = map[string]bool{"hours": true, "amount": true}

// StripCodeFences removes a markdown code fence the model may have wrapped
// around its JSON answer.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[7:]
	}
	if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// DecodeEnvelope turns the model's response text into a ParsedQuery. It never
// fails: undecodable input yields the default envelope (QUERY intent, no
// entity type, empty entities, confidence 0.0) with Err describing what went
// wrong. Output that decodes but violates the envelope schema goes through one
// lenient sanitize pass before being rejected.
func DecodeEnvelope(content string, logger *slog.Logger) *ParsedQuery {
	if logger == nil {
		logger = slog.Default()
	}

	raw := []byte(StripCodeFences(content))

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		logger.Error("llm.envelope.decode_error", "error", err, "content_len", len(content))
		return DefaultEnvelope(fmt.Sprintf("failed to parse query envelope: %v", err))
	}

	schema := BuildEnvelopeJSONSchema()
	if err := ValidateJSONAgainstSchema(schema, raw); err != nil {
		cleaned, dropped := sanitizeEnvelope(m)
		cleanedBytes, mErr := json.Marshal(cleaned)
		if mErr != nil {
			return DefaultEnvelope(fmt.Sprintf("failed to sanitize query envelope: %v", mErr))
		}
		if vErr := ValidateJSONAgainstSchema(schema, cleanedBytes); vErr != nil {
			logger.Error("llm.envelope.schema_validation_failed", "error", vErr)
			return DefaultEnvelope(fmt.Sprintf("envelope schema validation failed: %v", vErr))
		}
		logger.Warn("llm.envelope.lenient_sanitize_applied", "dropped", dropped)
		m = cleaned
		raw = cleanedBytes
	}

	// Fill structural defaults before decoding into the typed envelope.
	if _, ok := m["intent"]; !ok {
		m["intent"] = "QUERY"
	}
	if _, ok := m["confidence"]; !ok {
		m["confidence"] = 0.8
	}
	filled, err := json.Marshal(m)
	if err != nil {
		return DefaultEnvelope(fmt.Sprintf("failed to encode query envelope: %v", err))
	}

	var parsed ParsedQuery
	if err := json.Unmarshal(filled, &parsed); err != nil {
		logger.Error("llm.envelope.unmarshal_failed", "error", err)
		return DefaultEnvelope(fmt.Sprintf("failed to decode query envelope: %v", err))
	}
	return &parsed
}

// sanitizeEnvelope drops unknown keys and null/empty/mistyped values so a
// near-miss envelope can still validate. Only recoverable offenders are
// touched; the schema pass afterwards is authoritative.
func sanitizeEnvelope(m map[string]any) (map[string]any, []string) {
	out := make(map[string]any, len(m))
	var dropped []string

	keepString := func(key string, v any) {
		s, ok := v.(string)
		if !ok {
			dropped = append(dropped, key+"(type)")
			return
		}
		s = strings.TrimSpace(s)
		if s == "" {
			dropped = append(dropped, key+"(empty)")
			return
		}
		out[key] = s
	}

	for key, v := range m {
		switch key {
		case "intent", "entity_type", "operation":
			if v == nil {
				dropped = append(dropped, key+"(null)")
				continue
			}
			keepString(key, v)
		case "confidence":
			switch t := v.(type) {
			case float64:
				out[key] = t
			case string:
				if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
					out[key] = f
				} else {
					dropped = append(dropped, key+"(type)")
				}
			default:
				dropped = append(dropped, key+"(type)")
			}
		case "entities":
			ents, ok := v.(map[string]any)
			if !ok {
				dropped = append(dropped, key+"(type)")
				continue
			}
			cleaned := make(map[string]any, len(ents))
			for ek, ev := range ents {
				if !entityKeys[ek] {
					dropped = append(dropped, "entities."+ek+"(unknown)")
					continue
				}
				if ev == nil {
					dropped = append(dropped, "entities."+ek+"(null)")
					continue
				}
				if numericEntityKeys[ek] {
					switch t := ev.(type) {
					case float64:
						cleaned[ek] = t
					case string:
						if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
							cleaned[ek] = f
						} else {
							dropped = append(dropped, "entities."+ek+"(type)")
						}
					default:
						dropped = append(dropped, "entities."+ek+"(type)")
					}
					continue
				}
				s, ok := ev.(string)
				if !ok {
					dropped = append(dropped, "entities."+ek+"(type)")
					continue
				}
				s = strings.TrimSpace(s)
				if s == "" {
					dropped = append(dropped, "entities."+ek+"(empty)")
					continue
				}
				cleaned[ek] = s
			}
			out[key] = cleaned
		default:
			dropped = append(dropped, key+"(unknown)")
		}
	}
	return out, dropped
}
