package model

type Game struct {
	UUIDBase
	Name     string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Genre    string `gorm:"size:50" json:"genre"`
	ImageURL string `gorm:"size:255" json:"imageUrl"`
	Featured bool   `gorm:"default:false" json:"featured"`
}

func (Game) TableName() string {
	return "games"
}

type Platform struct {
	UUIDBase
	Name     string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	ImageURL string `gorm:"size:255" json:"imageUrl"`
}

func (Platform) TableName() string {
	return "platforms"
}
