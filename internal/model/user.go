package model

// ItemTypeUser is the discriminator stored on every user record. The
// secondary index is keyed by it, which is what makes full listings a
// query instead of a table scan.
const ItemTypeUser = "User"

// User represents a directory record. Email is the partition key and is
// immutable once the record exists.
type User struct {
	ItemType  string `json:"itemType,omitempty" dynamodbav:"itemType"`
	FirstName string `json:"firstName,omitempty" dynamodbav:"firstName"`
	LastName  string `json:"lastName,omitempty" dynamodbav:"lastName"`
	Email     string `json:"email,omitempty" dynamodbav:"email"`
	Gender    string `json:"gender,omitempty" dynamodbav:"gender"`
	JobTitle  string `json:"jobTitle,omitempty" dynamodbav:"jobTitle"`
	Country   string `json:"country,omitempty" dynamodbav:"country"`
}

// Key identifies a record, mapping key-attribute names to values.
// Primary lookups use {email}; continuation keys from the type index
// carry {itemType, email}.
type Key map[string]string

// PrimaryKey builds the primary key for an email.
func PrimaryKey(email string) Key {
	return Key{"email": email}
}

// Merge copies the non-empty attributes of patch onto u, leaving the
// rest unchanged. The email key is never touched.
func (u User) Merge(patch User) User {
	if patch.FirstName != "" {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		u.LastName = patch.LastName
	}
	if patch.Gender != "" {
		u.Gender = patch.Gender
	}
	if patch.JobTitle != "" {
		u.JobTitle = patch.JobTitle
	}
	if patch.Country != "" {
		u.Country = patch.Country
	}
	return u
}

// Project zeroes every attribute not named in attrs. An empty attrs
// keeps the record whole.
func (u User) Project(attrs []string) User {
	if len(attrs) == 0 {
		return u
	}
	keep := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		keep[a] = true
	}
	out := User{}
	if keep["itemType"] {
		out.ItemType = u.ItemType
	}
	if keep["firstName"] {
		out.FirstName = u.FirstName
	}
	if keep["lastName"] {
		out.LastName = u.LastName
	}
	if keep["email"] {
		out.Email = u.Email
	}
	if keep["gender"] {
		out.Gender = u.Gender
	}
	if keep["jobTitle"] {
		out.JobTitle = u.JobTitle
	}
	if keep["country"] {
		out.Country = u.Country
	}
	return out
}
