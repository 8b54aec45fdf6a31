package model

import "time"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

func ParseSkillLevel(s string) (SkillLevel, bool) {
	switch SkillLevel(s) {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return SkillLevel(s), true
	}
	return "", false
}

type User struct {
	UUIDBase
	Username  string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"size:100;not null" json:"-"`
	Role      string `gorm:"size:20;default:'ROLE_USER'" json:"role"`
	Bio       string `gorm:"size:500" json:"bio"`
	AvatarURL string `gorm:"size:255" json:"avatarUrl"`
	Online    bool   `gorm:"default:false" json:"online"`

	// Progression, written only by the match engine under a row lock.
	Level             int     `gorm:"default:0" json:"level"`
	MatchesPlayed     int     `gorm:"default:0" json:"matchesPlayed"`
	Rating            float64 `gorm:"default:0" json:"rating"`
	TotalRatingPoints float64 `gorm:"default:0" json:"-"`
	NumberOfRatings   int     `gorm:"default:0" json:"numberOfRatings"`

	PreferredGames []Game     `gorm:"many2many:user_preferred_games" json:"preferredGames,omitempty"`
	Platforms      []Platform `gorm:"many2many:user_platforms" json:"platforms,omitempty"`

	// Game name -> declared skill level.
	SkillLevels map[string]SkillLevel `gorm:"serializer:json" json:"skillLevels,omitempty"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// PrefersGame reports whether the game name is in the user's preferred set.
func (u *User) PrefersGame(name string) bool {
	for _, g := range u.PreferredGames {
		if g.Name == name {
			return true
		}
	}
	return false
}

// OnPlatform reports whether the platform name is in the user's set.
func (u *User) OnPlatform(name string) bool {
	for _, p := range u.Platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}

// LevelForMatches derives the progression level from a matches-played count.
// A user with no completed matches has level 0.
func LevelForMatches(matchesPlayed int) int {
	if matchesPlayed <= 0 {
		return 0
	}
	return matchesPlayed/5 + 1
}
