package analysis

// subsequences returns the distinct length-n subsequences of word.
func subsequences(word string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	if n <= 0 || n > len(word) {
		return set
	}
	buf := make([]byte, n)
	var build func(start, depth int)
	build = func(start, depth int) {
		if depth == n {
			set[string(buf)] = struct{}{}
			return
		}
		for i := start; i <= len(word)-(n-depth); i++ {
			buf[depth] = word[i]
			build(i+1, depth+1)
		}
	}
	build(0, 0)
	return set
}
