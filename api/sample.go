/*
sample.go - Built-in demo dataset

PURPOSE:
  Provides the dataset the form is pre-filled with: four autumn-term
  utility bills and four residency rows covering three residents, with
  小明 appearing twice to demonstrate that repeated names are separate
  additive stays.

  Unlike a database seed, nothing is loaded anywhere: the dataset is
  returned to the client, which submits it back through /api/allocate
  like any other input.

SEE ALSO:
  - handlers.go: Sample handler
*/
package api

func sampleDataset() SampleResponse {
	return SampleResponse{
		Bills: []BillDTO{
			{Name: "水費", Amount: 450, PeriodStart: "112/09/01", PeriodEnd: "112/10/31"},
			{Name: "電費9月", Amount: 3000, PeriodStart: "112/09/01", PeriodEnd: "112/09/30"},
			{Name: "電費10月", Amount: 2800, PeriodStart: "112/10/01", PeriodEnd: "112/10/31"},
			{Name: "瓦斯費", Amount: 1150, PeriodStart: "112/09/05", PeriodEnd: "112/11/04"},
		},
		Residents: []ResidencyDTO{
			{Resident: "小明", StayStart: "112/09/01", StayEnd: "112/09/30"},
			{Resident: "小華", StayStart: "112/09/15", StayEnd: "112/11/04"},
			{Resident: "小美", StayStart: "112/09/01", StayEnd: "112/10/15"},
			{Resident: "小明", StayStart: "112/10/20", StayEnd: "112/11/04"},
		},
	}
}
