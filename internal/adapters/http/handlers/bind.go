package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/dto"
)

// bindJSON binds and validates the JSON body into v. On failure it writes
// the error response and returns false; the handler should return.
func bindJSON(c *gin.Context, v any) bool {
	err := dto.BindAndValidate(c, v)
	if err != nil {
		dto.HandleBindingError(c, err)
		return false
	}

	return true
}
