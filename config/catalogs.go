package config

import "labsched/models"

// DefaultCatalogs returns the static reference data for labs, courses and
// time blocks. Loaded once in main and passed by reference; never mutated.
func DefaultCatalogs() *models.Catalogs {
	return &models.Catalogs{
		Labs: []models.Lab{
			{ID: "anatomy-1", DisplayName: "Anatomy Lab 1", LabType: "anatomy"},
			{ID: "anatomy-2", DisplayName: "Anatomy Lab 2", LabType: "anatomy"},
			{ID: "microscopy", DisplayName: "Microscopy Lab", LabType: "microscopy"},
			{ID: "biochemistry", DisplayName: "Biochemistry Lab", LabType: "wet"},
			{ID: "microbiology", DisplayName: "Microbiology Lab", LabType: "wet"},
			{ID: "skills", DisplayName: "Clinical Skills Lab", LabType: "simulation"},
			{ID: "simulation", DisplayName: "Simulation Center", LabType: "simulation"},
			{ID: "informatics", DisplayName: "Informatics Lab", LabType: "computer"},
		},
		Courses: []models.CourseOption{
			{Value: "medicine", Label: "Medicine"},
			{Value: "nursing", Label: "Nursing"},
			{Value: "pharmacy", Label: "Pharmacy"},
			{Value: "dentistry", Label: "Dentistry"},
			{Value: "physiotherapy", Label: "Physiotherapy"},
			{Value: "biomedicine", Label: "Biomedicine"},
			{Value: "nutrition", Label: "Nutrition"},
		},
		TimeBlocks: []models.TimeBlock{
			{ID: "07:00-09:10", Label: "07:00 - 09:10", Shift: "morning", StartMinute: 7*60 + 0, EndMinute: 9*60 + 10},
			{ID: "09:30-11:40", Label: "09:30 - 11:40", Shift: "morning", StartMinute: 9*60 + 30, EndMinute: 11*60 + 40},
			{ID: "13:00-15:10", Label: "13:00 - 15:10", Shift: "afternoon", StartMinute: 13 * 60, EndMinute: 15*60 + 10},
			{ID: "15:30-17:40", Label: "15:30 - 17:40", Shift: "afternoon", StartMinute: 15*60 + 30, EndMinute: 17*60 + 40},
			{ID: "18:30-20:40", Label: "18:30 - 20:40", Shift: "evening", StartMinute: 18*60 + 30, EndMinute: 20*60 + 40},
			{ID: "21:00-22:40", Label: "21:00 - 22:40", Shift: "evening", StartMinute: 21 * 60, EndMinute: 22*60 + 40},
		},
	}
}
