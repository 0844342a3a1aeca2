package models

// nullable converts an optional payload value into a row value.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// Artist is a recording artist.
type Artist struct {
	ArtistName string `json:"ArtistName" validate:"required,max=100"`
}

func (p *Artist) Fields() Row {
	return Row{"ArtistName": p.ArtistName}
}

// Album belongs to one [Artist]. Title and artist together are unique.
type Album struct {
	AlbumTitle string `json:"AlbumTitle" validate:"required,max=100"`
	ArtistId   int64  `json:"ArtistId" validate:"required,gte=1"`
}

func (p *Album) Fields() Row {
	return Row{"AlbumTitle": p.AlbumTitle, "ArtistId": p.ArtistId}
}

// Genre is a musical style.
type Genre struct {
	GenreName string `json:"GenreName" validate:"required,max=20"`
}

func (p *Genre) Fields() Row {
	return Row{"GenreName": p.GenreName}
}

// MediaType is the encoding of a track.
type MediaType struct {
	MediaTypeName string `json:"MediaTypeName" validate:"required,max=30"`
}

func (p *MediaType) Fields() Row {
	return Row{"MediaTypeName": p.MediaTypeName}
}

// Playlist is a named mix of tracks.
type Playlist struct {
	PlaylistName string `json:"PlaylistName" validate:"required,max=50"`
}

func (p *Playlist) Fields() Row {
	return Row{"PlaylistName": p.PlaylistName}
}

// Track is one song on an [Album].
type Track struct {
	TrackName    string   `json:"TrackName" validate:"required,max=150"`
	AlbumId      int64    `json:"AlbumId" validate:"required,gte=1"`
	MediaTypeId  int64    `json:"MediaTypeId" validate:"required,gte=1"`
	GenreId      int64    `json:"GenreId" validate:"required,gte=1"`
	Composer     *string  `json:"Composer" validate:"omitempty,max=200"`
	Milliseconds *int64   `json:"Milliseconds" validate:"omitempty,gte=0"`
	Bytes        *int64   `json:"Bytes" validate:"omitempty,gte=0"`
	UnitPrice    *float64 `json:"UnitPrice" validate:"required,gte=0"`
}

func (p *Track) Fields() Row {
	return Row{
		"TrackName":    p.TrackName,
		"AlbumId":      p.AlbumId,
		"MediaTypeId":  p.MediaTypeId,
		"GenreId":      p.GenreId,
		"Composer":     nullable(p.Composer),
		"Milliseconds": nullable(p.Milliseconds),
		"Bytes":        nullable(p.Bytes),
		"UnitPrice":    nullable(p.UnitPrice),
	}
}

// Employee is a member of staff. ReportsTo references another employee.
type Employee struct {
	Lastname   string  `json:"Lastname" validate:"required,max=20"`
	Firstname  string  `json:"Firstname" validate:"required,max=20"`
	Title      string  `json:"Title" validate:"required,max=30"`
	ReportsTo  *int64  `json:"ReportsTo" validate:"omitempty,gte=1"`
	Birthdate  *string `json:"Birthdate" validate:"omitempty,datetime=2006-01-02"`
	Hiredate   *string `json:"Hiredate" validate:"omitempty,datetime=2006-01-02"`
	Address    *string `json:"Address" validate:"omitempty,max=30"`
	City       *string `json:"City" validate:"omitempty,max=25"`
	State      *string `json:"State" validate:"omitempty,max=10"`
	Country    *string `json:"Country" validate:"omitempty,max=10"`
	Postalcode *string `json:"Postalcode" validate:"omitempty,max=10"`
	Phone      *string `json:"Phone" validate:"omitempty,max=20"`
	Fax        *string `json:"Fax" validate:"omitempty,max=20"`
	Email      string  `json:"Email" validate:"required,email,max=30"`
}

func (p *Employee) Fields() Row {
	return Row{
		"Lastname":   p.Lastname,
		"Firstname":  p.Firstname,
		"Title":      p.Title,
		"ReportsTo":  nullable(p.ReportsTo),
		"Birthdate":  nullable(p.Birthdate),
		"Hiredate":   nullable(p.Hiredate),
		"Address":    nullable(p.Address),
		"City":       nullable(p.City),
		"State":      nullable(p.State),
		"Country":    nullable(p.Country),
		"Postalcode": nullable(p.Postalcode),
		"Phone":      nullable(p.Phone),
		"Fax":        nullable(p.Fax),
		"Email":      p.Email,
	}
}

// Customer is a store customer, optionally assigned a support representative.
type Customer struct {
	Lastname     string  `json:"Lastname" validate:"required,max=50"`
	Firstname    string  `json:"Firstname" validate:"required,max=50"`
	Company      *string `json:"Company" validate:"omitempty,max=50"`
	Address      *string `json:"Address" validate:"omitempty,max=50"`
	City         *string `json:"City" validate:"omitempty,max=25"`
	State        *string `json:"State" validate:"omitempty,max=10"`
	Country      *string `json:"Country" validate:"omitempty,max=15"`
	Postalcode   *string `json:"Postalcode" validate:"omitempty,max=10"`
	Phone        *string `json:"Phone" validate:"omitempty,max=20"`
	Fax          *string `json:"Fax" validate:"omitempty,max=20"`
	Email        string  `json:"Email" validate:"required,email,max=30"`
	SupportRepId *int64  `json:"SupportRepId" validate:"omitempty,gte=1"`
}

func (p *Customer) Fields() Row {
	return Row{
		"Lastname":     p.Lastname,
		"Firstname":    p.Firstname,
		"Company":      nullable(p.Company),
		"Address":      nullable(p.Address),
		"City":         nullable(p.City),
		"State":        nullable(p.State),
		"Country":      nullable(p.Country),
		"Postalcode":   nullable(p.Postalcode),
		"Phone":        nullable(p.Phone),
		"Fax":          nullable(p.Fax),
		"Email":        p.Email,
		"SupportRepId": nullable(p.SupportRepId),
	}
}

// Invoice is a customer purchase.
type Invoice struct {
	CustomerId        int64    `json:"CustomerId" validate:"required,gte=1"`
	InvoiceDate       *string  `json:"InvoiceDate" validate:"omitempty,datetime=2006-01-02"`
	BillingAddress    *string  `json:"BillingAddress" validate:"omitempty,max=50"`
	BillingCity       *string  `json:"BillingCity" validate:"omitempty,max=25"`
	BillingState      *string  `json:"BillingState" validate:"omitempty,max=10"`
	BillingCountry    *string  `json:"BillingCountry" validate:"omitempty,max=20"`
	BillingPostalcode *string  `json:"BillingPostalcode" validate:"omitempty,max=10"`
	Total             *float64 `json:"Total" validate:"required,gte=0"`
}

func (p *Invoice) Fields() Row {
	return Row{
		"CustomerId":        p.CustomerId,
		"InvoiceDate":       nullable(p.InvoiceDate),
		"BillingAddress":    nullable(p.BillingAddress),
		"BillingCity":       nullable(p.BillingCity),
		"BillingState":      nullable(p.BillingState),
		"BillingCountry":    nullable(p.BillingCountry),
		"BillingPostalcode": nullable(p.BillingPostalcode),
		"Total":             nullable(p.Total),
	}
}

// InvoiceItem is one line of an [Invoice].
type InvoiceItem struct {
	InvoiceId int64    `json:"InvoiceId" validate:"required,gte=1"`
	TrackId   int64    `json:"TrackId" validate:"required,gte=1"`
	UnitPrice *float64 `json:"UnitPrice" validate:"required,gte=0"`
	Quantity  int64    `json:"Quantity" validate:"required,gte=1"`
}

func (p *InvoiceItem) Fields() Row {
	return Row{
		"InvoiceId": p.InvoiceId,
		"TrackId":   p.TrackId,
		"UnitPrice": nullable(p.UnitPrice),
		"Quantity":  p.Quantity,
	}
}

// PlaylistTrack links a [Track] to a [Playlist].
type PlaylistTrack struct {
	PlaylistId int64 `json:"PlaylistId" validate:"required,gte=1"`
	TrackId    int64 `json:"TrackId" validate:"required,gte=1"`
}

func (p *PlaylistTrack) Fields() Row {
	return Row{"PlaylistId": p.PlaylistId, "TrackId": p.TrackId}
}
