package data

import "fmt"

// Labelled collection of clouds. Clouds and Labels are parallel, Labels[i] indexes Classes.
// A Dataset is immutable once built.
type Dataset struct {
	ID         string
	Clouds     []Cloud
	Labels     []int
	Classes    []string
	Generation uint64 // registry generation the labels refer to
}

func NewDataset(id string, classes []string, generation uint64) *Dataset {
	cls := make([]string, len(classes))
	copy(cls, classes)
	return &Dataset{
		ID:         id,
		Clouds:     make([]Cloud, 0),
		Labels:     make([]int, 0),
		Classes:    cls,
		Generation: generation,
	}
}

func (d *Dataset) Append(cloud Cloud, label int) {
	d.Clouds = append(d.Clouds, cloud)
	d.Labels = append(d.Labels, label)
}

func (d *Dataset) Len() int {
	return len(d.Clouds)
}

func (d *Dataset) IsEmpty() bool {
	return len(d.Clouds) == 0
}

// Human readable class of the i-th sample
func (d *Dataset) ClassName(i int) string {
	label := d.Labels[i]
	if label < 0 || label >= len(d.Classes) {
		return fmt.Sprintf("class-%d", label)
	}
	return d.Classes[label]
}

// Number of points of the first cloud, 0 for an empty dataset
func (d *Dataset) PointsPerCloud() int {
	if len(d.Clouds) == 0 {
		return 0
	}
	return len(d.Clouds[0])
}
