package model

import "time"

type SupportCategory string

const (
	CategoryDomesticAbuse      SupportCategory = "domestic_abuse"
	CategoryDebtAdvice         SupportCategory = "debt_advice"
	CategoryPovertyWelfare     SupportCategory = "poverty_welfare"
	CategoryGeneralCounselling SupportCategory = "general_counselling"
)

type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageHindi    Language = "hi"
	LanguageGujarati Language = "gu"
	LanguagePunjabi  Language = "pu"
	LanguagePolish   Language = "pl"
)

type Volunteer struct {
	ID                string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName          string            `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Email             string            `json:"email" bson:"email" validate:"required,email"`
	Phone             string            `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,uk_phone"`
	Bio               string            `json:"bio" bson:"bio" validate:"required,min=50,max=200"`
	SupportCategories []SupportCategory `json:"support_categories" bson:"support_categories" validate:"required,min=1,dive,oneof=domestic_abuse debt_advice poverty_welfare general_counselling"`
	Languages         []Language        `json:"languages" bson:"languages" validate:"required,min=1,dive,oneof=en hi gu pu pl"`
	IsVerified        bool              `json:"is_verified" bson:"is_verified"`
	IsActive          bool              `json:"is_active" bson:"is_active"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Selectable reports whether clients may book this volunteer.
// Both admin verification and activation are required.
func (v *Volunteer) Selectable() bool {
	return v.IsVerified && v.IsActive
}

// OffersCategory reports whether the volunteer covers the given support category.
func (v *Volunteer) OffersCategory(category SupportCategory) bool {
	for _, c := range v.SupportCategories {
		if c == category {
			return true
		}
	}
	return false
}

func (v *Volunteer) SpeaksLanguage(lang Language) bool {
	for _, l := range v.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

type VolunteerUpdate struct {
	FullName          string            `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone             string            `json:"phone,omitempty" validate:"omitempty,uk_phone"`
	Bio               string            `json:"bio,omitempty" validate:"omitempty,min=50,max=200"`
	SupportCategories []SupportCategory `json:"support_categories,omitempty" validate:"omitempty,min=1,dive,oneof=domestic_abuse debt_advice poverty_welfare general_counselling"`
	Languages         []Language        `json:"languages,omitempty" validate:"omitempty,min=1,dive,oneof=en hi gu pu pl"`
}
