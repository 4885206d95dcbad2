package models

// DailyImageRequest is the payload sent to the daily image endpoint.
type DailyImageRequest struct {
	Partner1  string `json:"partner1"`
	Partner2  string `json:"partner2"`
	StyleInfo string `json:"styleInfo"`
	BaseImage string `json:"baseImage,omitempty"`
}

// DailyImageRequestFrom builds the request for the couple in s. Without a
// chosen style the endpoint applies its own default.
func DailyImageRequestFrom(s State) DailyImageRequest {
	req := DailyImageRequest{
		Partner1:  s.Partner1Name,
		Partner2:  s.Partner2Name,
		BaseImage: Deref(s.BaseImage),
	}
	if s.Style != nil {
		if info, ok := s.Style.Info(); ok {
			req.StyleInfo = info.Label
		}
	}
	return req
}
