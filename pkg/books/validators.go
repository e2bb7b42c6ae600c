package books

type ListBooksQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Filepath string  `json:"filepath" mod:"trim" validate:"required"`
	ID       *string `json:"id,omitempty" mod:"trim" validate:"omitempty,min=1,max=200,excludesall=/?#"`
}
