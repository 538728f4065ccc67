// Package skills provides the skill dictionary, context disambiguation, and rule-based
// skill extraction from free text.
package skills

import (
	"sort"
	"strings"
)

// Category groups related skills.
type Category string

// Built-in skill categories.
const (
	CategoryLanguage Category = "programming_languages"
	CategoryFrontend Category = "frontend"
	CategoryBackend  Category = "backend"
	CategoryDatabase Category = "database"
	CategoryCloud    Category = "cloud_devops"
	CategoryTools    Category = "tools"
	CategoryAIML     Category = "ai_ml"
	CategoryMobile   Category = "mobile"
	CategoryData     Category = "data"
	CategorySoft     Category = "soft_skills"
	CategoryOther    Category = "other"
)

// Entry is a canonical skill name and the textual forms that refer to it.
// The lower-cased canonical name is always accepted as a form.
type Entry struct {
	Canonical string   `json:"canonical" mapstructure:"canonical" validate:"required"`
	Variants  []string `json:"variants,omitempty" mapstructure:"variants"`
	Category  Category `json:"category,omitempty" mapstructure:"category"`
}

// Dictionary is an immutable, case-insensitive mapping from known skill forms to
// canonical names. It is safe for concurrent use.
type Dictionary struct {
	forms      map[string]string // lower-cased form -> canonical
	categories map[string]Category
	canonicals []string // declaration order
}

// NewDictionary builds a dictionary from entries. Later entries override the canonical
// name of a form declared by an earlier entry.
func NewDictionary(entries ...Entry) *Dictionary {
	d := &Dictionary{
		forms:      make(map[string]string),
		categories: make(map[string]Category),
	}
	d.add(entries)
	return d
}

func (d *Dictionary) add(entries []Entry) {
	for _, e := range entries {
		canonical := strings.TrimSpace(e.Canonical)
		if canonical == "" {
			continue
		}
		if _, exists := d.categories[canonical]; !exists {
			d.canonicals = append(d.canonicals, canonical)
		}
		category := e.Category
		if category == "" {
			category = CategoryOther
		}
		d.categories[canonical] = category

		d.forms[strings.ToLower(canonical)] = canonical
		for _, v := range e.Variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				d.forms[v] = canonical
			}
		}
	}
}

// With returns a new dictionary containing the receiver's entries plus the given ones.
// The receiver is not modified.
func (d *Dictionary) With(entries ...Entry) *Dictionary {
	out := &Dictionary{
		forms:      make(map[string]string, len(d.forms)+len(entries)),
		categories: make(map[string]Category, len(d.categories)+len(entries)),
		canonicals: append([]string(nil), d.canonicals...),
	}
	for k, v := range d.forms {
		out.forms[k] = v
	}
	for k, v := range d.categories {
		out.categories[k] = v
	}
	out.add(entries)
	return out
}

// Lookup reports whether raw is a known skill form and returns its canonical name.
func (d *Dictionary) Lookup(raw string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if key == "" {
		return "", false
	}
	canonical, ok := d.forms[key]
	return canonical, ok
}

// Contains reports whether raw is a known skill form.
func (d *Dictionary) Contains(raw string) bool {
	_, ok := d.Lookup(raw)
	return ok
}

// Category returns the category of a canonical skill name, or CategoryOther if unknown.
func (d *Dictionary) Category(canonical string) Category {
	if c, ok := d.categories[canonical]; ok {
		return c
	}
	return CategoryOther
}

// Canonicals returns the canonical names in declaration order.
func (d *Dictionary) Canonicals() []string {
	return append([]string(nil), d.canonicals...)
}

// Len returns the number of distinct canonical skills.
func (d *Dictionary) Len() int {
	return len(d.canonicals)
}

// Forms returns every accepted form, longest first so that alternations prefer
// "javascript" over "java". Ties are broken alphabetically for a stable order.
func (d *Dictionary) Forms() []string {
	forms := make([]string, 0, len(d.forms))
	for f := range d.forms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	return forms
}

// DefaultDictionary returns the built-in dictionary.
func DefaultDictionary() *Dictionary {
	return defaultDictionary
}

var defaultDictionary = NewDictionary(DefaultEntries()...)

// DefaultEntries returns the built-in skill entries grouped by category.
func DefaultEntries() []Entry {
	var entries []Entry
	add := func(category Category, list ...Entry) {
		for _, e := range list {
			e.Category = category
			entries = append(entries, e)
		}
	}

	add(CategoryLanguage,
		Entry{Canonical: "JavaScript"},
		Entry{Canonical: "TypeScript"},
		Entry{Canonical: "Python"},
		Entry{Canonical: "Java"},
		Entry{Canonical: "C++"},
		Entry{Canonical: "C#"},
		Entry{Canonical: "Ruby"},
		Entry{Canonical: "Go", Variants: []string{"golang"}},
		Entry{Canonical: "Rust"},
		Entry{Canonical: "PHP"},
		Entry{Canonical: "Swift"},
		Entry{Canonical: "Kotlin"},
		Entry{Canonical: "Scala"},
		Entry{Canonical: "R"},
	)
	add(CategoryFrontend,
		Entry{Canonical: "React", Variants: []string{"reactjs", "react.js"}},
		Entry{Canonical: "Angular", Variants: []string{"angularjs"}},
		Entry{Canonical: "Vue.js", Variants: []string{"vue", "vuejs"}},
		Entry{Canonical: "Svelte"},
		Entry{Canonical: "Next.js", Variants: []string{"nextjs"}},
		Entry{Canonical: "Nuxt"},
		Entry{Canonical: "Gatsby"},
		Entry{Canonical: "HTML"},
		Entry{Canonical: "CSS"},
		Entry{Canonical: "Sass"},
		Entry{Canonical: "SCSS"},
		Entry{Canonical: "Less"},
		Entry{Canonical: "Tailwind CSS", Variants: []string{"tailwind", "tailwindcss"}},
		Entry{Canonical: "Bootstrap"},
		Entry{Canonical: "Material-UI", Variants: []string{"mui"}},
		Entry{Canonical: "Styled-components"},
	)
	add(CategoryBackend,
		Entry{Canonical: "Node.js", Variants: []string{"node", "nodejs"}},
		Entry{Canonical: "Express", Variants: []string{"expressjs"}},
		Entry{Canonical: "Fastify"},
		Entry{Canonical: "NestJS", Variants: []string{"nest"}},
		Entry{Canonical: "Django"},
		Entry{Canonical: "Flask"},
		Entry{Canonical: "FastAPI"},
		Entry{Canonical: "Spring"},
		Entry{Canonical: "Spring Boot"},
		Entry{Canonical: "Ruby on Rails", Variants: []string{"rails"}},
		Entry{Canonical: "Laravel"},
		Entry{Canonical: ".NET"},
		Entry{Canonical: "ASP.NET"},
	)
	add(CategoryDatabase,
		Entry{Canonical: "SQL"},
		Entry{Canonical: "MySQL"},
		Entry{Canonical: "PostgreSQL", Variants: []string{"postgres"}},
		Entry{Canonical: "MongoDB"},
		Entry{Canonical: "Redis"},
		Entry{Canonical: "Elasticsearch"},
		Entry{Canonical: "DynamoDB"},
		Entry{Canonical: "Firebase"},
		Entry{Canonical: "Supabase"},
		Entry{Canonical: "SQLite"},
		Entry{Canonical: "Oracle"},
		Entry{Canonical: "Cassandra"},
		Entry{Canonical: "GraphQL"},
		Entry{Canonical: "Prisma"},
	)
	add(CategoryCloud,
		Entry{Canonical: "AWS", Variants: []string{"amazon web services"}},
		Entry{Canonical: "Azure"},
		Entry{Canonical: "GCP", Variants: []string{"google cloud"}},
		Entry{Canonical: "Docker"},
		Entry{Canonical: "Kubernetes", Variants: []string{"k8s"}},
		Entry{Canonical: "Terraform"},
		Entry{Canonical: "Jenkins"},
		Entry{Canonical: "CI/CD"},
		Entry{Canonical: "GitHub Actions"},
		Entry{Canonical: "GitLab"},
		Entry{Canonical: "CircleCI"},
		Entry{Canonical: "Linux"},
		Entry{Canonical: "Unix"},
		Entry{Canonical: "Bash"},
		Entry{Canonical: "Shell"},
	)
	add(CategoryTools,
		Entry{Canonical: "Git"},
		Entry{Canonical: "Agile"},
		Entry{Canonical: "Scrum"},
		Entry{Canonical: "Jira"},
		Entry{Canonical: "REST", Variants: []string{"restful"}},
		Entry{Canonical: "API", Variants: []string{"apis"}},
		Entry{Canonical: "Microservices"},
		Entry{Canonical: "Serverless"},
		Entry{Canonical: "OAuth"},
		Entry{Canonical: "JWT"},
		Entry{Canonical: "Testing"},
		Entry{Canonical: "Unit Testing"},
		Entry{Canonical: "Jest"},
		Entry{Canonical: "Cypress"},
		Entry{Canonical: "Selenium"},
		Entry{Canonical: "Playwright"},
		Entry{Canonical: "TDD"},
		Entry{Canonical: "BDD"},
	)
	add(CategoryAIML,
		Entry{Canonical: "Machine Learning", Variants: []string{"ml"}},
		Entry{Canonical: "Deep Learning"},
		Entry{Canonical: "AI", Variants: []string{"artificial intelligence"}},
		Entry{Canonical: "TensorFlow"},
		Entry{Canonical: "PyTorch"},
		Entry{Canonical: "NLP"},
		Entry{Canonical: "LLM"},
		Entry{Canonical: "OpenAI"},
	)
	add(CategoryMobile,
		Entry{Canonical: "iOS"},
		Entry{Canonical: "Android"},
		Entry{Canonical: "React Native"},
		Entry{Canonical: "Flutter"},
		Entry{Canonical: "Xamarin"},
		Entry{Canonical: "Mobile Development"},
	)
	add(CategoryData,
		Entry{Canonical: "Data Analysis"},
		Entry{Canonical: "Data Science"},
		Entry{Canonical: "Pandas"},
		Entry{Canonical: "NumPy"},
		Entry{Canonical: "Tableau"},
		Entry{Canonical: "Power BI"},
		Entry{Canonical: "ETL"},
		Entry{Canonical: "Data Engineering"},
		Entry{Canonical: "Spark"},
		Entry{Canonical: "Hadoop"},
	)
	add(CategorySoft,
		Entry{Canonical: "Leadership"},
		Entry{Canonical: "Communication"},
		Entry{Canonical: "Problem Solving"},
		Entry{Canonical: "Teamwork"},
		Entry{Canonical: "Collaboration"},
	)

	return entries
}
