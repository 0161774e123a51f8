package dto

type CreateTagRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateTagRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type CreateStudyRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=100"`
	Description string `form:"description" json:"description"`
}

type UpdateStudyRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=100"`
	Description string `form:"description" json:"description"`
}

type LookupListQuery struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Order string `query:"order"`
	Name  string `query:"name"`
}
