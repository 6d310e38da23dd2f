package ptk

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var paramsValidate = validator.New()

// Validate checks the physical constraints on p (alpha' > 0, radii > 0).
//
// The formulas themselves never call Validate -- they are total over any input.
func (p *Params) Validate() error {
	if err := paramsValidate.Struct(p); err != nil {
		return errors.Wrap(ErrBadParams, err.Error())
	}
	return nil
}

// LoadParams returns DefaultParams() overlaid with the YAML file at pathname (if given)
// and then with any PTK_* environment variables, and validates the result.
func LoadParams(pathname string) (Params, error) {
	p := DefaultParams()

	if len(pathname) > 0 {
		data, err := os.ReadFile(pathname)
		if err != nil {
			return p, errors.Wrapf(err, "reading params %q", pathname)
		}
		if err = yaml.Unmarshal(data, &p); err != nil {
			return p, errors.Wrapf(ErrBadParams, "parsing %q: %v", pathname, err)
		}
	}

	if err := loadParamsFromEnv(&p); err != nil {
		return p, err
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func loadParamsFromEnv(p *Params) error {
	overrides := []struct {
		name  string
		field *float64
	}{
		{"PTK_ALPHA_PRIME", &p.AlphaPrime},
		{"PTK_A_OPEN", &p.AOpen},
		{"PTK_A_CLOSED", &p.AClosed},
		{"PTK_R1", &p.R1},
		{"PTK_R2", &p.R2},
		{"PTK_C1", &p.C1},
		{"PTK_C2", &p.C2},
		{"PTK_D1", &p.D1},
		{"PTK_D2", &p.D2},
	}

	for _, ov := range overrides {
		v := os.Getenv(ov.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(ErrBadParams, "%s=%q", ov.name, v)
		}
		*ov.field = f
	}
	return nil
}
