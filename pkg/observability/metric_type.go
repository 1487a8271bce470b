package observability

type Label struct {
	Key   string
	Value string
}

func OperationLabel(op string) Label {
	return Label{Key: "operation", Value: op}
}

type MetricOpt struct {
	Help        string
	Buckets     []float64
	ConstLabels []Label
	LabelKeys   []string
}
