package view

import "strings"

const (
	// DefaultNamespace is the reserved namespace used when an identifier has
	// no namespace prefix.
	DefaultNamespace = "__default"
	// DefaultTemplate is used when an identifier has an empty template part.
	DefaultTemplate = "index"

	namespaceSeparator = ":"
)

// Name is a parsed template identifier.
type Name struct {
	Namespace string
	Template  string
}

// String formats the name back into identifier form.
func (n Name) String() string {
	if n.Namespace == DefaultNamespace {
		return n.Template
	}
	return n.Namespace + namespaceSeparator + n.Template
}

// ParseName splits id into namespace and template. It never fails.
func ParseName(id string) Name {
	namespace, template, found := strings.Cut(id, namespaceSeparator)
	if !found {
		namespace, template = "", id
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if template == "" {
		template = DefaultTemplate
	}
	return Name{Namespace: namespace, Template: template}
}
