package model

// ListParams selects and pages a user listing. An empty Email lists
// every user record via the type index.
type ListParams struct {
	Email            string
	ReturnAttributes []string
	NextToken        string
	Limit            int32
}

// ListResult is one page of users. NextToken is empty once the listing
// is exhausted.
type ListResult struct {
	Users     []User
	NextToken string
}
