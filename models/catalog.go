package models

// Lab is a static reference entry for a bookable laboratory room.
type Lab struct {
	ID          string `bson:"id" json:"id"`
	DisplayName string `bson:"displayName" json:"displayName"`
	LabType     string `bson:"labType" json:"labType"` // e.g. "anatomy", "microscopy", "multi"
}

// CourseOption is a static reference entry for a course that can attend a session.
type CourseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TimeBlock is one of the fixed class-period intervals all sessions snap to.
type TimeBlock struct {
	ID          string `json:"id"`    // canonical range label, e.g. "07:00-09:10"
	Label       string `json:"label"` // display label
	Shift       string `json:"shift"` // "morning", "afternoon" or "evening"
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
}

// Catalogs bundles the static reference data loaded once at startup and
// injected by reference into every component that needs it.
type Catalogs struct {
	Labs       []Lab
	Courses    []CourseOption
	TimeBlocks []TimeBlock
}

// LabByID returns the catalog entry for the given lab id, or nil.
func (c *Catalogs) LabByID(id string) *Lab {
	for i := range c.Labs {
		if c.Labs[i].ID == id {
			return &c.Labs[i]
		}
	}
	return nil
}

// BlockByID returns the time block with the given id, or nil.
func (c *Catalogs) BlockByID(id string) *TimeBlock {
	for i := range c.TimeBlocks {
		if c.TimeBlocks[i].ID == id {
			return &c.TimeBlocks[i]
		}
	}
	return nil
}
