package storefront

import (
	"strings"

	"github.com/pkg/errors"
)

// CustomForm collects a request for an item outside the catalog. Item name,
// optional notes and an optional image reference are folded into the single
// description the inbox stores.
type CustomForm struct {
	Name     string
	Notes    string
	Quantity int
	Image    ImageInput
}

// Description renders the folded description line.
func (f *CustomForm) Description() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(f.Name))
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		b.WriteString(" - ")
		b.WriteString(notes)
	}
	switch {
	case f.Image.data != "":
		b.WriteString(" | Imagen adjunta")
	case f.Image.url != "":
		b.WriteString(" | Imagen: ")
		b.WriteString(f.Image.url)
	}
	return b.String()
}

// Input validates the form and builds the submission payload.
func (f *CustomForm) Input(phone string) (CustomInput, error) {
	if strings.TrimSpace(f.Name) == "" {
		return CustomInput{}, errors.New("describe el producto que buscas")
	}
	qty := f.Quantity
	if qty < 1 {
		qty = 1
	}
	return CustomInput{
		Phone:       phone,
		Description: f.Description(),
		Quantity:    qty,
	}, nil
}
