package projects

type Category string

const (
	CategoryBackEnd   Category = "BackEnd"
	CategoryFrontEnd  Category = "FrontEnd"
	CategoryMobile    Category = "Mobile"
	CategoryFullStack Category = "FullStack"
	CategoryDevOps    Category = "DevOps"
)

// CategoryAll is the filter wildcard; it is never stored on a project.
const CategoryAll = "All"

type CategoryInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// categoryTable is the one exhaustive mapping keyed by the category enum.
// Presentation metadata lives here and nowhere else.
var categoryTable = map[Category]CategoryInfo{
	CategoryBackEnd:   {Label: "Back End", Color: "#16a34a"},
	CategoryFrontEnd:  {Label: "Front End", Color: "#2563eb"},
	CategoryMobile:    {Label: "Mobile", Color: "#9333ea"},
	CategoryFullStack: {Label: "Full Stack", Color: "#ea580c"},
	CategoryDevOps:    {Label: "DevOps", Color: "#0891b2"},
}

// AllCategories returns the fixed enumeration in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryBackEnd,
		CategoryFrontEnd,
		CategoryMobile,
		CategoryFullStack,
		CategoryDevOps,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) Info() CategoryInfo {
	return categoryTable[c]
}
