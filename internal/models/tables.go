package models

import "strings"

var (
	Artists = register(&Table{
		Name:       "Artists",
		Entity:     "Artist",
		Resource:   "artists",
		NameColumn: "ArtistName",
		Columns:    []Column{{Name: "ArtistName", Kind: Text}},
		NewPayload: func() Payload { return &Artist{} },
	})

	Genres = register(&Table{
		Name:       "Genres",
		Entity:     "Genre",
		Resource:   "genres",
		NameColumn: "GenreName",
		Columns:    []Column{{Name: "GenreName", Kind: Text}},
		NewPayload: func() Payload { return &Genre{} },
	})

	MediaTypes = register(&Table{
		Name:       "MediaTypes",
		Entity:     "Mediatype",
		Resource:   "mediatypes",
		NameColumn: "MediaTypeName",
		Columns:    []Column{{Name: "MediaTypeName", Kind: Text}},
		NewPayload: func() Payload { return &MediaType{} },
	})

	Playlists = register(&Table{
		Name:       "Playlists",
		Entity:     "Playlist",
		Resource:   "playlists",
		NameColumn: "PlaylistName",
		Columns:    []Column{{Name: "PlaylistName", Kind: Text}},
		NewPayload: func() Payload { return &Playlist{} },
	})

	Employees = register(&Table{
		Name:       "Employees",
		Entity:     "Employee",
		Resource:   "employees",
		NameColumn: "Lastname",
		Columns: []Column{
			{Name: "Lastname", Kind: Text},
			{Name: "Firstname", Kind: Text},
			{Name: "Title", Kind: Text},
			{Name: "ReportsTo", Kind: Int, Nullable: true},
			{Name: "Birthdate", Kind: Date, Nullable: true},
			{Name: "Hiredate", Kind: Date, Nullable: true},
			{Name: "Address", Kind: Text, Nullable: true},
			{Name: "City", Kind: Text, Nullable: true},
			{Name: "State", Kind: Text, Nullable: true},
			{Name: "Country", Kind: Text, Nullable: true},
			{Name: "Postalcode", Kind: Text, Nullable: true},
			{Name: "Phone", Kind: Text, Nullable: true},
			{Name: "Fax", Kind: Text, Nullable: true},
			{Name: "Email", Kind: Text},
		},
		NewPayload: func() Payload { return &Employee{} },
	})

	Albums = register(&Table{
		Name:       "Albums",
		Entity:     "Album",
		Resource:   "albums",
		NameColumn: "AlbumTitle",
		Columns: []Column{
			{Name: "AlbumTitle", Kind: Text},
			{Name: "ArtistId", Kind: Int},
		},
		NewPayload: func() Payload { return &Album{} },
	})

	Tracks = register(&Table{
		Name:       "Tracks",
		Entity:     "Track",
		Resource:   "tracks",
		NameColumn: "TrackName",
		Columns: []Column{
			{Name: "TrackName", Kind: Text},
			{Name: "AlbumId", Kind: Int},
			{Name: "MediaTypeId", Kind: Int},
			{Name: "GenreId", Kind: Int},
			{Name: "Composer", Kind: Text, Nullable: true},
			{Name: "Milliseconds", Kind: Int, Nullable: true},
			{Name: "Bytes", Kind: Int, Nullable: true},
			{Name: "UnitPrice", Kind: Decimal},
		},
		NewPayload: func() Payload { return &Track{} },
	})

	Customers = register(&Table{
		Name:       "Customers",
		Entity:     "Customer",
		Resource:   "customers",
		NameColumn: "Lastname",
		Columns: []Column{
			{Name: "Lastname", Kind: Text},
			{Name: "Firstname", Kind: Text},
			{Name: "Company", Kind: Text, Nullable: true},
			{Name: "Address", Kind: Text, Nullable: true},
			{Name: "City", Kind: Text, Nullable: true},
			{Name: "State", Kind: Text, Nullable: true},
			{Name: "Country", Kind: Text, Nullable: true},
			{Name: "Postalcode", Kind: Text, Nullable: true},
			{Name: "Phone", Kind: Text, Nullable: true},
			{Name: "Fax", Kind: Text, Nullable: true},
			{Name: "Email", Kind: Text},
			{Name: "SupportRepId", Kind: Int, Nullable: true},
		},
		NewPayload: func() Payload { return &Customer{} },
	})

	Invoices = register(&Table{
		Name:   "Invoices",
		Entity: "Invoice",
		Columns: []Column{
			{Name: "CustomerId", Kind: Int},
			{Name: "InvoiceDate", Kind: Date, Nullable: true},
			{Name: "BillingAddress", Kind: Text, Nullable: true},
			{Name: "BillingCity", Kind: Text, Nullable: true},
			{Name: "BillingState", Kind: Text, Nullable: true},
			{Name: "BillingCountry", Kind: Text, Nullable: true},
			{Name: "BillingPostalcode", Kind: Text, Nullable: true},
			{Name: "Total", Kind: Decimal},
		},
		NewPayload: func() Payload { return &Invoice{} },
	})

	InvoiceItems = register(&Table{
		Name:   "InvoiceItems",
		Entity: "Invoice item",
		Columns: []Column{
			{Name: "InvoiceId", Kind: Int},
			{Name: "TrackId", Kind: Int},
			{Name: "UnitPrice", Kind: Decimal},
			{Name: "Quantity", Kind: Int},
		},
		NewPayload: func() Payload { return &InvoiceItem{} },
	})

	PlaylistTracks = register(&Table{
		Name:   "PlaylistTracks",
		Entity: "Playlist track",
		Columns: []Column{
			{Name: "PlaylistId", Kind: Int},
			{Name: "TrackId", Kind: Int},
		},
		NewPayload: func() Payload { return &PlaylistTrack{} },
	})
)

// registry holds every table in dependency order: a table only references tables before it.
var registry []*Table

func register(t *Table) *Table {
	t.lookup = make(map[string]Column, len(t.Columns)+3)
	t.lookup[IDColumn] = Column{Name: IDColumn, Kind: Int}
	for _, c := range t.Columns {
		t.lookup[c.Name] = c
	}
	t.lookup[DateCreatedColumn] = Column{Name: DateCreatedColumn, Kind: Date}
	t.lookup[DateUpdatedColumn] = Column{Name: DateUpdatedColumn, Kind: Date}

	registry = append(registry, t)
	return t
}

// Tables returns every table in dependency order.
func Tables() []*Table {
	out := make([]*Table, len(registry))
	copy(out, registry)
	return out
}

// Resources returns the tables that have an HTTP router.
func Resources() []*Table {
	var out []*Table
	for _, t := range registry {
		if t.Exposed() {
			out = append(out, t)
		}
	}
	return out
}

// Lookup finds a table by SQL name or resource segment, ignoring case.
func Lookup(name string) (*Table, bool) {
	for _, t := range registry {
		if strings.EqualFold(t.Name, name) || (t.Resource != "" && strings.EqualFold(t.Resource, name)) {
			return t, true
		}
	}
	return nil, false
}
