package model

// Sheet holds the geometry of the playing surface in cm. Y grows from the
// hog line towards the back line.
type Sheet struct {
	Width          float64 `json:"width" yaml:"width" mapstructure:"width"`
	StoneRadius    float64 `json:"stone_radius" yaml:"stone_radius" mapstructure:"stone_radius"`
	HogLineOffset  float64 `json:"hog_line_offset" yaml:"hog_line_offset" mapstructure:"hog_line_offset"`    // Tee line to hog line
	BackLineOffset float64 `json:"back_line_offset" yaml:"back_line_offset" mapstructure:"back_line_offset"` // Tee line to back line
	ViewTopOffset  float64 `json:"view_top_offset" yaml:"view_top_offset" mapstructure:"view_top_offset"`    // Tee line Y in sheet coordinates
	HogLineWidth   float64 `json:"hog_line_width" yaml:"hog_line_width" mapstructure:"hog_line_width"`

	HouseRadius12      float64 `json:"house_radius_12" yaml:"house_radius_12" mapstructure:"house_radius_12"`
	HouseRadius8       float64 `json:"house_radius_8" yaml:"house_radius_8" mapstructure:"house_radius_8"`
	HouseRadius4       float64 `json:"house_radius_4" yaml:"house_radius_4" mapstructure:"house_radius_4"`
	ButtonRadius       float64 `json:"button_radius" yaml:"button_radius" mapstructure:"button_radius"`
	NearHouseThreshold float64 `json:"near_house_threshold" yaml:"near_house_threshold" mapstructure:"near_house_threshold"`
}

// DefaultSheet returns the standard curling sheet dimensions.
func DefaultSheet() Sheet {
	return Sheet{
		Width:              475,
		StoneRadius:        14.5,
		HogLineOffset:      640,
		BackLineOffset:     183,
		ViewTopOffset:      640,
		HogLineWidth:       0,
		HouseRadius12:      183,
		HouseRadius8:       122,
		HouseRadius4:       61,
		ButtonRadius:       15,
		NearHouseThreshold: 150,
	}
}

// HogLineY returns the Y coordinate of the hog line (the near line).
func (s Sheet) HogLineY() float64 {
	return s.ViewTopOffset - s.HogLineOffset
}

// BackLineY returns the Y coordinate of the back line (the far line).
func (s Sheet) BackLineY() float64 {
	return s.ViewTopOffset + s.BackLineOffset
}

// TeeY returns the Y coordinate of the tee line, the house centre.
func (s Sheet) TeeY() float64 {
	return s.ViewTopOffset
}

// CenterX returns the X coordinate of the centre line.
func (s Sheet) CenterX() float64 {
	return s.Width / 2
}

// ViewBottomY returns the lowest Y a renderer needs: one stone diameter past
// the back line.
func (s Sheet) ViewBottomY() float64 {
	return s.BackLineY() + 2*s.StoneRadius
}

// RingRadii returns the house rings from the outside in, button last.
func (s Sheet) RingRadii() []float64 {
	return []float64{s.HouseRadius12, s.HouseRadius8, s.HouseRadius4, s.ButtonRadius}
}
