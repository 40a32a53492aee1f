package runtime

// Fixed corrective texts. Malformed input never raises; it degrades to a
// self-loop carrying one of these.
const (
	textUnrecognized  = "看不懂這個回覆，請點選按鈕作答！"
	textWrongQuestion = "這不是現在這一題喔！"
	textDuplicate     = "這個選項已經試過了，換一個吧！"
	textWrongAnswer   = "答錯了，再試一次！"
	textNoResult      = "找不到對應的結果，輸入任意文字重新開始！"
)
