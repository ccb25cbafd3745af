package enquiries

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

func TestValidate(t *testing.T) {
	e := &Enquiry{PropertyID: "p1", Name: "Ari", Email: "ari@example.com", Message: "Is it still available?"}
	assert.NoError(t, e.Validate())

	for name, mutate := range map[string]func(*Enquiry){
		"property": func(e *Enquiry) { e.PropertyID = "" },
		"name":     func(e *Enquiry) { e.Name = "  " },
		"message":  func(e *Enquiry) { e.Message = "" },
		"email":    func(e *Enquiry) { e.Email = "nope" },
	} {
		c := *e
		mutate(&c)
		assert.True(t, errs.IsValidation(c.Validate()), name)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusContacted.Valid())
	assert.False(t, Status("archived").Valid())
}
