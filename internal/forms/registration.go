package forms

import (
	"strconv"

	"healthtracker/internal/models"
	"healthtracker/internal/validation"
)

// Registration is a validated sign-up: the account, its profile and the raw
// password still to be hashed.
type Registration struct {
	User     models.User
	Profile  models.UserProfile
	Password string
}

// ValidateRegistration checks the composite sign-up form.
func ValidateRegistration(values Values) Result[Registration] {
	p := newParser(values)
	var reg Registration

	if username, ok := p.required("username"); ok {
		if err := validation.ValidateUsername(username); err != nil {
			p.errs.Add("username", err.Error())
		} else {
			reg.User.Username = username
		}
	}

	if email, ok := p.required("email"); ok {
		if err := validation.ValidateEmail(email); err != nil {
			p.errs.Add("email", err.Error())
		} else {
			reg.User.Email = email
		}
	}

	password1, ok1 := p.secret("password1")
	password2, ok2 := p.secret("password2")
	if ok1 && ok2 {
		if password1 != password2 {
			p.errs.Add("password2", validation.ErrPasswordMismatch.Error())
		} else {
			for _, problem := range validation.PasswordProblems(password2, values.Get("username")) {
				p.errs.Add("password2", problem.Error())
			}
			reg.Password = password2
		}
	}

	if dob, ok := p.date("date_of_birth"); ok {
		reg.Profile.DateOfBirth = &dob
	}
	if height := p.wholeNumber("height", "gte=0", msgNonNegative); !p.errs.Has("height") {
		h := float64(height)
		reg.Profile.Height = &h
	}
	if weight := p.wholeNumber("weight", "gte=0", msgNonNegative); !p.errs.Has("weight") {
		w := float64(weight)
		reg.Profile.Weight = &w
	}
	level := p.wholeNumber("fitness_level", "min=1,max=10",
		"Ensure this value is between 1 and 10.")
	if !p.errs.Has("fitness_level") {
		reg.Profile.FitnessLevel = strconv.Itoa(level)
	}

	return finish(reg, p.errs)
}
