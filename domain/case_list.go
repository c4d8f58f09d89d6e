package domain

// SortCriterion is the closed set of case library orderings.
type SortCriterion string

const (
	SortLatest    SortCriterion = "latest"
	SortPopular   SortCriterion = "popular"
	SortMostLiked SortCriterion = "mostLiked"
)

func (s SortCriterion) Valid() bool {
	switch s {
	case SortLatest, SortPopular, SortMostLiked:
		return true
	}
	return false
}

// RecordFilter narrows a sorted record listing.
type RecordFilter struct {
	Sort   SortCriterion
	Tags   []string
	Offset int
	Limit  int
}

type CaseQuery struct {
	Page     int
	PageSize int
	Sort     SortCriterion
	Tags     []string
}

type CaseListItem struct {
	Record
	IsLiked      bool `json:"isLiked"`
	IsBookmarked bool `json:"isBookmarked"`
}

type CaseListPage struct {
	Cases    []CaseListItem `json:"cases"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
