package model

import "time"

type Dataset struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string      `gorm:"uniqueIndex" json:"name"`
	Description string      `json:"description"`
	Size        string      `json:"size"`
	Samples     int64       `json:"samples"`
	Category    string      `json:"category"`
	License     string      `json:"license"`
	Downloads   int64       `json:"downloads"`
	UpdatedAt   int64       `json:"updated_at"`
	Tags        StringSlice `json:"tags"`
}

func mustDate(s string) int64 {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

// SampleDatasets is the curated dataset catalog seeded into the database
// on first start. There is no dataset upload flow yet
var SampleDatasets = []Dataset{
	{
		Name:        "HumanoidMotion-1M",
		Description: "Large-scale dataset of human motion captures for training humanoid robots, including walking, manipulation, and acrobatic movements.",
		Size:        "2.3 TB",
		Samples:     1_000_000,
		Category:    "Motion",
		License:     "CC BY-NC 4.0",
		Downloads:   12420,
		UpdatedAt:   mustDate("2025-03-15"),
		Tags:        StringSlice{"Walking", "Balance", "Acrobatics"},
	},
	{
		Name:        "RoboGrasp-500K",
		Description: "Comprehensive dataset of robot grasping attempts across various objects and conditions, with success/failure annotations.",
		Size:        "800 GB",
		Samples:     500_000,
		Category:    "Manipulation",
		License:     "MIT",
		Downloads:   8150,
		UpdatedAt:   mustDate("2025-03-10"),
		Tags:        StringSlice{"Grasping", "Lifting"},
	},
	{
		Name:        "HumanoidVision-HD",
		Description: "High-definition visual data from humanoid robot perspectives, including depth maps and segmentation masks.",
		Size:        "1.5 TB",
		Samples:     750_000,
		Category:    "Vision",
		License:     "Apache 2.0",
		Downloads:   6300,
		UpdatedAt:   mustDate("2025-03-01"),
		Tags:        StringSlice{"Object Detection", "Scene Understanding"},
	},
}
