package models

// Translation holds one localized attribute value of a translatable entity.
type Translation struct {
	ID                  uint   `gorm:"column:id;primaryKey;autoIncrement"`
	TranslationableType string `gorm:"column:translationable_type;not null;index:translations_lookup_idx"`
	TranslationableID   uint   `gorm:"column:translationable_id;not null;index:translations_lookup_idx"`
	Locale              string `gorm:"column:locale;not null;index:translations_lookup_idx"`
	Key                 string `gorm:"column:key;not null"`
	Value               string `gorm:"column:value;type:text"`
}
