package port

import "time"

const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldDropped    = "dropped"
)

func RequestID(id string) Field {
	return String(FieldRequestID, id)
}

func Method(m string) Field {
	return String(FieldMethod, m)
}

func Path(p string) Field {
	return String(FieldPath, p)
}

func StatusCode(code int) Field {
	return Int(FieldStatusCode, code)
}

func DurationMS(d time.Duration) Field {
	return Int64(FieldDurationMS, d.Milliseconds())
}

func Dropped(n int64) Field {
	return Int64(FieldDropped, n)
}
