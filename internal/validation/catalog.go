package validation

import "strings"

// Category groups related technologies
type Category struct {
	Name         string
	Technologies []string
}

// Catalog is an ordered list of known technologies used for suggestions and grouping
type Catalog struct {
	categories []Category
	index      map[string]string // lowercased name -> canonical name
	all        []string
}

// NewCatalog builds a catalog; earlier categories win when a name appears twice
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{categories: categories, index: make(map[string]string)}
	for _, category := range categories {
		for _, tech := range category.Technologies {
			key := strings.ToLower(tech)
			if _, seen := c.index[key]; seen {
				continue
			}
			c.index[key] = tech
			c.all = append(c.all, tech)
		}
	}
	return c
}

// DefaultCatalog lists the technologies the assistant recognises
var DefaultCatalog = NewCatalog([]Category{
	{"languages", []string{"Python", "JavaScript", "Java", "C++", "C#", "Go", "Rust",
		"TypeScript", "Ruby", "PHP", "Swift", "Kotlin", "Scala"}},
	{"frontend", []string{"React", "Vue.js", "Angular", "Svelte", "Next.js", "Nuxt.js",
		"HTML", "CSS", "Tailwind CSS", "Bootstrap", "Material-UI"}},
	{"backend", []string{"Node.js", "Django", "Flask", "FastAPI", "Spring Boot",
		"Express.js", ".NET", "Ruby on Rails", "Laravel"}},
	{"databases", []string{"PostgreSQL", "MySQL", "MongoDB", "Redis", "Cassandra",
		"SQLite", "Oracle", "DynamoDB", "Elasticsearch"}},
	{"cloud", []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
		"Jenkins", "GitHub Actions", "CircleCI"}},
	{"ml_ai", []string{"TensorFlow", "PyTorch", "scikit-learn", "Keras", "Pandas",
		"NumPy", "OpenCV", "Hugging Face", "LangChain"}},
	{"mobile", []string{"React Native", "Flutter", "Swift", "Kotlin", "Ionic"}},
	{"tools", []string{"Git", "Jira", "Linux", "Postman", "VS Code", "IntelliJ"}},
})

// All returns every technology once, in catalog order
func (c *Catalog) All() []string {
	return c.all
}

// Lookup returns the canonical spelling of tech when it is an exact (case-insensitive) match
func (c *Catalog) Lookup(tech string) (string, bool) {
	name, ok := c.index[strings.ToLower(strings.TrimSpace(tech))]
	return name, ok
}

// CategoryOf returns the first category containing tech, or "" when unknown
func (c *Catalog) CategoryOf(tech string) string {
	key := strings.ToLower(strings.TrimSpace(tech))
	for _, category := range c.categories {
		for _, known := range category.Technologies {
			if strings.ToLower(known) == key {
				return category.Name
			}
		}
	}
	return ""
}

// CategoryOf looks tech up in the default catalog
func CategoryOf(tech string) string {
	return DefaultCatalog.CategoryOf(tech)
}
