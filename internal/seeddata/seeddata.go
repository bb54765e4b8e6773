// Package seeddata holds the fixed sample job postings used to populate a
// PathX store for demos and manual testing.
package seeddata

import "github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"

// Jobs returns a fresh copy of the seed set on every call so callers may
// mutate the result freely.
func Jobs() []models.JobPosting {
	out := make([]models.JobPosting, len(jobs))
	for i, j := range jobs {
		j.Skills = append([]string(nil), j.Skills...)
		out[i] = j
	}
	return out
}

// Size is the number of postings in the seed set.
func Size() int { return len(jobs) }

var jobs = []models.JobPosting{
	{
		Title:           "Junior Frontend Developer",
		Company:         "Brain Station 23",
		Location:        "Dhaka, Bangladesh",
		Type:            models.FullTime,
		ExperienceLevel: models.EntryLevel,
		Track:           "Web Development",
		Skills:          []string{"React", "JavaScript", "HTML", "CSS", "Git"},
		Description:     "Build and maintain responsive interfaces for enterprise clients alongside a senior mentor. Ideal for recent graduates with a strong portfolio.",
		Logo:            "https://logo.clearbit.com/brainstation-23.com",
	},
	{
		Title:           "Backend Engineer (Go)",
		Company:         "Pathao",
		Location:        "Dhaka, Bangladesh",
		Type:            models.FullTime,
		ExperienceLevel: models.MidLevel,
		Track:           "Software Engineering",
		Skills:          []string{"Go", "PostgreSQL", "Redis", "Kafka", "Docker"},
		Description:     "Design high-throughput services for ride sharing and logistics. You will own APIs end to end, from schema design to production monitoring.",
		Logo:            "https://logo.clearbit.com/pathao.com",
	},
	{
		Title:           "Data Analyst Intern",
		Company:         "bKash",
		Location:        "Dhaka, Bangladesh",
		Type:            models.Internship,
		ExperienceLevel: models.EntryLevel,
		Track:           "Data Science",
		Skills:          []string{"SQL", "Python", "Excel", "Power BI"},
		Description:     "Six-month internship supporting the analytics team with dashboards and ad-hoc analysis of mobile financial service usage.",
		Logo:            "https://logo.clearbit.com/bkash.com",
	},
	{
		Title:           "Senior Machine Learning Engineer",
		Company:         "Chaldal",
		Location:        "Remote",
		Type:            models.FullTime,
		ExperienceLevel: models.Senior,
		Track:           "Data Science",
		Skills:          []string{"Python", "PyTorch", "MLOps", "AWS", "Recommendation Systems"},
		Description:     "Lead demand forecasting and recommendation models for online grocery. Mentor a small team and take models from notebook to production.",
		Logo:            "https://logo.clearbit.com/chaldal.com",
	},
	{
		Title:           "UI/UX Designer",
		Company:         "Shohoz",
		Location:        "Dhaka, Bangladesh",
		Type:            models.PartTime,
		ExperienceLevel: models.MidLevel,
		Track:           "Design",
		Skills:          []string{"Figma", "User Research", "Prototyping", "Design Systems"},
		Description:     "Shape booking flows for bus, launch and event tickets. Twenty hours per week with flexible scheduling.",
		Logo:            "https://logo.clearbit.com/shohoz.com",
	},
	{
		Title:           "Mobile App Developer (Flutter)",
		Company:         "Selise Digital Platforms",
		Location:        "Remote",
		Type:            models.Freelance,
		ExperienceLevel: models.MidLevel,
		Track:           "Mobile Development",
		Skills:          []string{"Flutter", "Dart", "Firebase", "REST APIs"},
		Description:     "Contract engagement to deliver a cross-platform customer app for a Swiss client. Milestone-based payments.",
		Logo:            "https://logo.clearbit.com/selise.ch",
	},
	{
		Title:           "DevOps Engineer",
		Company:         "Enosis Solutions",
		Location:        "Dhaka, Bangladesh",
		Type:            models.FullTime,
		ExperienceLevel: models.Senior,
		Track:           "Cloud & DevOps",
		Skills:          []string{"Kubernetes", "Terraform", "CI/CD", "Linux", "Azure"},
		Description:     "Own the delivery pipeline and cloud infrastructure for several product teams. On-call rotation shared across the platform group.",
		Logo:            "https://logo.clearbit.com/enosisbd.com",
	},
	{
		Title:           "QA Automation Engineer",
		Company:         "Therap (BD) Ltd.",
		Location:        "Sylhet, Bangladesh",
		Type:            models.FullTime,
		ExperienceLevel: models.MidLevel,
		Track:           "Quality Assurance",
		Skills:          []string{"Selenium", "Java", "TestNG", "API Testing"},
		Description:     "Automate regression suites for healthcare documentation software and work with developers to improve testability.",
		Logo:            "https://logo.clearbit.com/therapservices.net",
	},
	{
		Title:           "Content Writer",
		Company:         "10 Minute School",
		Location:        "Remote",
		Type:            models.Freelance,
		ExperienceLevel: models.EntryLevel,
		Track:           "Marketing",
		Skills:          []string{"Copywriting", "SEO", "Bangla", "English"},
		Description:     "Write course descriptions and blog posts in Bangla and English. Paid per article with a monthly minimum.",
		Logo:            "https://logo.clearbit.com/10minuteschool.com",
	},
	{
		Title:           "Software Engineering Intern",
		Company:         "Kaz Software",
		Location:        "Dhaka, Bangladesh",
		Type:            models.Internship,
		ExperienceLevel: models.EntryLevel,
		Track:           "Software Engineering",
		Skills:          []string{"C#", ".NET", "SQL", "Problem Solving"},
		Description:     "Three-month paid internship with a path to a full-time offer. Work on real client projects from the first week.",
		Logo:            "https://logo.clearbit.com/kaz.com.bd",
	},
	{
		Title:           "Product Manager",
		Company:         "ShopUp",
		Location:        "Dhaka, Bangladesh",
		Type:            models.FullTime,
		ExperienceLevel: models.Senior,
		Track:           "Product Management",
		Skills:          []string{"Roadmapping", "Analytics", "Stakeholder Management", "Agile"},
		Description:     "Drive the merchant lending product from discovery to launch. Partner closely with engineering, risk and operations.",
		Logo:            "https://logo.clearbit.com/shopup.org",
	},
	{
		Title:           "Customer Support Associate",
		Company:         "Daraz",
		Location:        "Chattogram, Bangladesh",
		Type:            models.PartTime,
		ExperienceLevel: models.EntryLevel,
		Track:           "Customer Success",
		Skills:          []string{"Communication", "CRM", "Problem Solving"},
		Description:     "Evening shifts handling customer queries over chat and phone. Training provided.",
		Logo:            "https://logo.clearbit.com/daraz.com.bd",
	},
}
