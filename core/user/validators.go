package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/gradebook/core"
)

var (
	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the username"
)

func init() {
	core.Validate.RegisterStructValidation(changePasswordStructValidation, ChangePassword{})
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// changePasswordStructValidation rejects new passwords too similar to the account's username.
func changePasswordStructValidation(sl validator.StructLevel) {
	cp, ok := sl.Current().Interface().(ChangePassword)
	if !ok || cp.Password == "" {
		return
	}
	if similarity(cp.Password, cp.username) >= pwdMaxSim {
		sl.ReportError(cp.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

func similarity(pwd, attr string) float64 {
	if attr == "" {
		return 0
	}
	pwd, attr = strings.ToLower(pwd), strings.ToLower(attr)
	return difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio()
}
