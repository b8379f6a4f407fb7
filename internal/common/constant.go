package common

// RequestIDHeaderName is the HTTP header carrying the per-call request id.
const RequestIDHeaderName = "X-Request-ID"

// MinEntryLength is the minimal trimmed length of a journal entry, in characters.
const MinEntryLength = 20
