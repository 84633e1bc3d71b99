// Package practice is the terminal front end. It drives a scheduler from
// line commands on standard input, prints every new word with its rhymes
// and loops the selected beat through an external player while a session
// is generating.
package practice
