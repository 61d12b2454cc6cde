package catalog

// Skill is a technology the site owner works with, grouped by area for the
// home page and used as one source of the tag catalog.
type Skill struct {
	Name  string `json:"name"`
	Area  string `json:"area"`
	Level string `json:"level"`
}

// Position is a work-history entry. Only its technology list feeds the
// catalog; the rest renders on the experience section.
type Position struct {
	Company      string   `json:"company"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Location     string   `json:"location,omitempty"`
	Technologies []string `json:"technologies"`
}

var skills = []Skill{
	{Name: "React", Area: "Frontend", Level: "Beginner"},
	{Name: "TypeScript", Area: "Frontend", Level: "Intermediate"},
	{Name: "Tailwind CSS", Area: "Frontend", Level: "Beginner"},

	{Name: "Java", Area: "Backend", Level: "Expert"},
	{Name: "Spring Boot", Area: "Backend", Level: "Expert"},
	{Name: "Spring Security", Area: "Backend", Level: "Intermediate"},
	{Name: "Spring Cloud", Area: "Backend", Level: "Advanced"},
	{Name: "Kotlin", Area: "Backend", Level: "Intermediate"},
	{Name: "APIs REST", Area: "Backend", Level: "Expert"},
	{Name: "Swagger / OpenAPI", Area: "Backend", Level: "Advanced"},
	{Name: "JWT / OAuth2", Area: "Backend", Level: "Advanced"},
	{Name: "JPA / Hibernate", Area: "Backend", Level: "Expert"},
	{Name: "Spring Data", Area: "Backend", Level: "Advanced"},

	{Name: "Oracle", Area: "Database", Level: "Advanced"},
	{Name: "MySQL", Area: "Database", Level: "Advanced"},
	{Name: "PostgreSQL", Area: "Database", Level: "Advanced"},
	{Name: "MongoDB", Area: "Database", Level: "Intermediate"},
	{Name: "Cassandra", Area: "Database", Level: "Intermediate"},

	{Name: "Docker", Area: "DevOps", Level: "Intermediate"},
	{Name: "Git / GitHub", Area: "DevOps", Level: "Advanced"},
	{Name: "CI/CD", Area: "DevOps", Level: "Beginner"},

	{Name: "Kotlin (Android)", Area: "Mobile", Level: "Intermediate"},
	{Name: "Flutter / Dart", Area: "Mobile", Level: "Intermediate"},
	{Name: "React Native", Area: "Mobile", Level: "Beginner"},
}

var positions = []Position{
	{
		Company:      "NTT DATA Europe & Latam",
		Title:        "Junior Developer 3",
		Start:        "2025-07",
		End:          "Present",
		Location:     "Castellón, España",
		Technologies: []string{"Java", "Spring", "Spring Boot", "Oracle", "DB2", "JUnit", "Mockito", "Scrum"},
	},
	{
		Company:      "NTT DATA Europe & Latam",
		Title:        "Junior Developer 2",
		Start:        "2025-01",
		End:          "2025-07",
		Location:     "Castellón, España",
		Technologies: []string{"Spring Boot", "Swagger", "OpenAPI", "Postman", "IBM InfoSphere", "SQL", "YAML", "IntelliJ", "VS Code"},
	},
	{
		Company:      "NTT DATA Europe & Latam",
		Title:        "Junior Developer 1",
		Start:        "2024-07",
		End:          "2025-01",
		Location:     "Castellón, España",
		Technologies: []string{"Java", "Spring Framework", "Microservicios"},
	},
	{
		Company:      "NTT DATA Europe & Latam",
		Title:        "Student Internship",
		Start:        "2023-10",
		End:          "2024-06",
		Location:     "Castellón, España",
		Technologies: []string{"APIs REST", "Microservicios", "SQL", "Git", "MySQL", "Postman", "Scrum"},
	},
	{
		Company:      "Hospital Universitario de la Plana",
		Title:        "IT Technician",
		Start:        "2022-03",
		End:          "2022-07",
		Location:     "Vila-real, España",
		Technologies: []string{"Soporte Técnico", "Hardware", "Resolución de Incidencias"},
	},
}

func Skills() []Skill {
	out := make([]Skill, len(skills))
	copy(out, skills)
	return out
}

func Positions() []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}
