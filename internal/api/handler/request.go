package handler

import (
	"encoding/json"
	"net/http"

	"pinnacle_metals/internal/common"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.WithMessage(common.ErrBadRequest, "Invalid request payload")
	}
	return nil
}
