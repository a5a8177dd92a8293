package models

// OneResult 存储单个测试点的判题结果。
type OneResult struct {
	Datafile string `json:"datafile"`
	Result   int    `json:"result"`
	Time     int    `json:"time"`
	Mem      int    `json:"mem"`
}

// TotalResults 聚合所有测试点的结果以及最终的判题结果。
type TotalResults struct {
	Results     []OneResult `json:"results"`
	FinalResult int         `json:"final_result"`
}
