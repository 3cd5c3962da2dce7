package model

type NormalizePhoneRequest struct {
	Phone string `json:"phone"`
}

type NormalizePhoneResponse struct {
	Input string `json:"input"`
	Phone string `json:"phone"`
}

type NormalizeDOBRequest struct {
	DOB string `json:"dob"`
}

type NormalizeDOBResponse struct {
	Input string `json:"input"`
	DOB   string `json:"dob"`
}

type NormalizeContactsRequest struct {
	Contacts []RawContact `json:"contacts"`
	Persist  bool         `json:"persist,omitempty"`
}

type NormalizeContactsResponse struct {
	RunID      string      `json:"run_id"`
	Processed  int         `json:"processed"`
	Normalized int         `json:"normalized"`
	Skipped    int         `json:"skipped"`
	Contacts   []Contact   `json:"contacts"`
	Rejections []Rejection `json:"rejections"`
}
