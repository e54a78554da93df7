// Package llmjson decodes JSON payloads out of LLM completion text.
//
// Models asked for JSON frequently wrap it in markdown code fences or
// surround it with prose. Decode tries a strict unmarshal first, then strips
// code fences and extracts the outermost JSON object or array. Callers can
// inspect the reported Kind to log when a response needed recovery.
package llmjson
